package catalog

import (
	"encoding/binary"
	"reflect"
	"strings"
	"testing"
)

func TestCodec_CompressesLargeCatalogs(t *testing.T) {
	var commands []Command
	for i := 0; i < 200; i++ {
		commands = append(commands, Command{
			Name:        "listVirtualMachines",
			Description: strings.Repeat("List the virtual machines. ", 4),
			Arguments:   []Argument{{Name: "zoneid", Description: "the zone"}, ResponseArgument},
		})
	}
	entry := cacheEntry{Version: cacheVersion, Fingerprint: "abc", Commands: commands}

	data, err := encodeEntry(entry)
	if err != nil {
		t.Fatalf("encodeEntry() error = %v", err)
	}
	if data[len(cacheMagic)] != compressionLZ4 {
		t.Errorf("compression tag = %d, want lz4", data[len(cacheMagic)])
	}

	got, err := decodeEntry(data)
	if err != nil {
		t.Fatalf("decodeEntry() error = %v", err)
	}
	if !reflect.DeepEqual(got, entry) {
		t.Error("decoded entry differs from the encoded one")
	}
}

func TestCodec_SmallEntryStoredRaw(t *testing.T) {
	entry := cacheEntry{Version: cacheVersion, Fingerprint: "f", Commands: []Command{{Name: "a"}}}

	data, err := encodeEntry(entry)
	if err != nil {
		t.Fatal(err)
	}
	got, err := decodeEntry(data)
	if err != nil {
		t.Fatalf("decodeEntry() error = %v", err)
	}
	if got.Fingerprint != "f" || len(got.Commands) != 1 || got.Commands[0].Name != "a" {
		t.Errorf("decoded = %+v", got)
	}
}

func TestCodec_Rejects(t *testing.T) {
	valid, err := encodeEntry(cacheEntry{Version: cacheVersion, Fingerprint: "f"})
	if err != nil {
		t.Fatal(err)
	}
	wrongVersion, err := encodeEntry(cacheEntry{Version: cacheVersion + 1, Fingerprint: "f"})
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		data []byte
	}{
		{"empty", nil},
		{"bad magic", []byte("XXXX")},
		{"header only", cacheMagic},
		{"truncated payload", valid[:len(valid)-1]},
		{"unknown compression", append(append([]byte{}, cacheMagic...), 9, 1, 0)},
		{"wrong version", wrongVersion},
		{"oversized lz4 header", lz4Header(1<<63 + 5)},
		{"lz4 size beyond ratio", lz4Header(1 << 20)},
		{"oversized raw header", append(append([]byte{}, cacheMagic...), compressionNone, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0x01)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := decodeEntry(tt.data); err == nil {
				t.Error("decodeEntry() should fail")
			}
		})
	}
}

// lz4Header builds an LZ4-tagged cache file claiming size payload bytes
func lz4Header(size uint64) []byte {
	data := append([]byte{}, cacheMagic...)
	data = append(data, compressionLZ4)
	data = binary.AppendUvarint(data, size)
	return append(data, 0x10, 'x')
}
