package csvstream

import (
	"errors"
	"io"
	"strings"
	"testing"
)

type row struct {
	Name     string `csv:"name"`
	Age      int    `csv:"age"`
	Optional *string
}

func TestDecoder_Next(t *testing.T) {
	src := "name,age,unused\nalice,30,x\nbob,40,y\n"
	dec := NewDecoder[row](strings.NewReader(src))

	r1, err := dec.Next()
	if err != nil {
		t.Fatalf("Next() error = %v", err)
	}
	if r1.Name != "alice" || r1.Age != 30 {
		t.Errorf("got %+v", r1)
	}

	r2, err := dec.Next()
	if err != nil {
		t.Fatalf("Next() error = %v", err)
	}
	if r2.Name != "bob" || r2.Age != 40 {
		t.Errorf("got %+v", r2)
	}

	if _, err := dec.Next(); !errors.Is(err, io.EOF) {
		t.Errorf("final Next() error = %v, want io.EOF", err)
	}
}

func TestDecoder_EmptyBody(t *testing.T) {
	dec := NewDecoder[row](strings.NewReader(""))
	if _, err := dec.Next(); !errors.Is(err, io.EOF) {
		t.Errorf("Next() error = %v, want io.EOF", err)
	}
}

func TestDecoder_MissingRequiredFieldFailsRowOnly(t *testing.T) {
	src := "name,age\nalice,30\n,40\ncarol,50\n"
	dec := NewDecoder[row](strings.NewReader(src))

	if _, err := dec.Next(); err != nil {
		t.Fatalf("first row: %v", err)
	}
	if _, err := dec.Next(); err == nil {
		t.Fatal("expected error for missing required field")
	}
	r3, err := dec.Next()
	if err != nil {
		t.Fatalf("third row after a failed row: %v", err)
	}
	if r3.Name != "carol" {
		t.Errorf("got %+v", r3)
	}
}

func TestDecoder_UnknownColumnsIgnored(t *testing.T) {
	src := "name,age,extra\nalice,30,ignored\n"
	dec := NewDecoder[row](strings.NewReader(src))
	r, err := dec.Next()
	if err != nil {
		t.Fatalf("Next() error = %v", err)
	}
	if r.Name != "alice" || r.Age != 30 {
		t.Errorf("got %+v", r)
	}
}
