package extract

import "testing"

func TestDecode_Latin1(t *testing.T) {
	enc, err := LookupEncoding("iso-8859-1")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	out, err := Decode([]byte{'c', 'a', 'f', 0xe9}, enc)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if string(out) != "café" {
		t.Fatalf("got %q", out)
	}
}

func TestDecode_BOMWins(t *testing.T) {
	enc, err := LookupEncoding("windows-1252")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	in := append([]byte{0xef, 0xbb, 0xbf}, []byte("UNCLASSIFIED é")...)
	out, err := Decode(in, enc)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if string(out) != "UNCLASSIFIED é" {
		t.Fatalf("got %q", out)
	}
}

func TestLookupEncoding(t *testing.T) {
	if _, err := LookupEncoding(""); err != nil {
		t.Fatalf("default encoding: %v", err)
	}
	if _, err := LookupEncoding("utf-8"); err != nil {
		t.Fatalf("utf-8: %v", err)
	}
	if _, err := LookupEncoding("klingon-7"); err == nil {
		t.Fatalf("expected error for unknown encoding")
	}
}
