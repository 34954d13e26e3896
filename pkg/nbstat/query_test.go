package nbstat

import (
	"bytes"
	"encoding/binary"
	"testing"
	"time"
)

func TestEncodeQuery(t *testing.T) {
	query := EncodeQuery(0xbeef)
	if len(query) != RequestSize {
		t.Fatalf("len(query) = %d, want %d", len(query), RequestSize)
	}

	want := []byte{
		0xbe, 0xef, // transaction id
		0x00, 0x00, // flags
		0x00, 0x01, // questions
		0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
		0x20,
	}
	want = append(want, bytes.Repeat([]byte("A"), 32)...)
	want[13], want[14] = 'C', 'K'
	want = append(want, 0x00, 0x00, 0x21, 0x00, 0x01)
	if !bytes.Equal(query, want) {
		t.Errorf("EncodeQuery() = %x\nwant %x", query, want)
	}
}

func TestToken(t *testing.T) {
	epoch := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		elapsed time.Duration
		want    uint16
	}{
		{name: "at epoch", elapsed: 0, want: 0},
		{name: "sub millisecond truncates", elapsed: 900 * time.Microsecond, want: 0},
		{name: "1.5 seconds", elapsed: 1500 * time.Millisecond, want: 1500},
		{name: "wraps after 65536ms", elapsed: 65536*time.Millisecond + 12*time.Millisecond, want: 12},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Token(epoch, epoch.Add(tt.elapsed)); got != tt.want {
				t.Errorf("Token() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestQueryRoundTripsThroughResponseID(t *testing.T) {
	query := EncodeQuery(321)
	response := BuildResponse(binary.BigEndian.Uint16(query), nil, nil)
	record, err := Decode(response)
	if err != nil {
		t.Fatal(err)
	}
	if record.Header.TransactionID != 321 {
		t.Errorf("transaction id = %d, want 321", record.Header.TransactionID)
	}
}

func TestWireSize(t *testing.T) {
	if got := WireSize(); got != 78 {
		t.Errorf("WireSize() = %d, want 78", got)
	}
}
