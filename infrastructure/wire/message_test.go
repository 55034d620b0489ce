package wire

import (
	"bytes"
	"encoding/binary"
	"errors"
	"testing"
)

func TestMarshalUnmarshal_Request(t *testing.T) {
	encoded, err := Message{Kind: KindRequest}.Marshal()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(encoded) != 4 {
		t.Fatalf("encoded request length = %d, want 4", len(encoded))
	}

	decoded, err := Unmarshal(encoded)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if decoded.Kind != KindRequest {
		t.Fatalf("kind = %v, want Request", decoded.Kind)
	}
}

func TestMarshalUnmarshal_Response(t *testing.T) {
	in := Message{Kind: KindResponse, ID: 253, Token: 0xDEADBEEFCAFEBABE}
	encoded, err := in.Marshal()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	decoded, err := Unmarshal(encoded)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if decoded.Kind != KindResponse || decoded.ID != in.ID || decoded.Token != in.Token {
		t.Fatalf("decoded = %+v, want %+v", decoded, in)
	}
}

func TestMarshalUnmarshal_Data_RoundTripsPayload(t *testing.T) {
	packet := bytes.Repeat([]byte{0x45, 0x00, 0xAB}, 400)
	in := Message{Kind: KindData, ID: 7, Token: 42, Data: Compress(nil, packet)}

	encoded, err := in.Marshal()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	decoded, err := Unmarshal(encoded)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if decoded.Kind != KindData || decoded.ID != 7 || decoded.Token != 42 {
		t.Fatalf("decoded header = %+v, want %+v", decoded, in)
	}

	decompressed, err := Decompress(nil, decoded.Data)
	if err != nil {
		t.Fatalf("decompress failed: %v", err)
	}
	if !bytes.Equal(decompressed, packet) {
		t.Fatal("decompressed payload differs from original packet")
	}
}

func TestMarshalUnmarshal_Data_Empty(t *testing.T) {
	encoded, err := Message{Kind: KindData, ID: 2, Token: 1}.Marshal()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	decoded, err := Unmarshal(encoded)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(decoded.Data) != 0 {
		t.Fatalf("payload length = %d, want 0", len(decoded.Data))
	}
}

func TestUnmarshal_Truncated(t *testing.T) {
	full, _ := Message{Kind: KindData, ID: 1, Token: 2, Data: []byte{1, 2, 3}}.Marshal()

	cases := [][]byte{
		nil,
		{0x02},
		full[:5],
		full[:DataOverhead-1],
		full[:len(full)-1],
	}
	for i, b := range cases {
		if _, err := Unmarshal(b); !errors.Is(err, ErrTruncated) {
			t.Fatalf("case %d: err = %v, want ErrTruncated", i, err)
		}
	}
}

func TestUnmarshal_UnknownTag(t *testing.T) {
	b := make([]byte, 4)
	binary.LittleEndian.PutUint32(b, 9)
	if _, err := Unmarshal(b); !errors.Is(err, ErrUnknownTag) {
		t.Fatalf("err = %v, want ErrUnknownTag", err)
	}
}

func TestUnmarshal_TrailingBytes(t *testing.T) {
	request, _ := Message{Kind: KindRequest}.Marshal()
	if _, err := Unmarshal(append(request, 0x00)); !errors.Is(err, ErrTrailing) {
		t.Fatalf("err = %v, want ErrTrailing", err)
	}

	response, _ := Message{Kind: KindResponse, ID: 3, Token: 4}.Marshal()
	if _, err := Unmarshal(append(response, 0xFF)); !errors.Is(err, ErrTrailing) {
		t.Fatalf("err = %v, want ErrTrailing", err)
	}
}

func TestDecompress_Garbage(t *testing.T) {
	if _, err := Decompress(nil, []byte{0xFF, 0xFF, 0xFF, 0xFF}); err == nil {
		t.Fatal("expected error decompressing garbage")
	}
}
