package instructions

import "testing"

func TestStringWithOperands(t *testing.T) {
	i := New("mov", "rax", "1")
	got := i.String()
	want := "        mov rax,1"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestStringNoOperands(t *testing.T) {
	i := New("ret")
	if got, want := i.String(), "        ret"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestStringWithComment(t *testing.T) {
	i := New("add", "rax", "rdx").WithComment("x + y")
	if got, want := i.String(), "        add rax,rdx  ; x + y"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestLabel(t *testing.T) {
	l := Label("L0")
	if got, want := l.String(), "L0:"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}
