package session

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFileStore(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "state")
	fs := NewFileStore(dir)

	if _, ok, err := fs.Get(KeyToken); ok || err != nil {
		t.Fatalf("Get on empty store = ok:%v err:%v", ok, err)
	}
	if err := fs.Set(KeyToken, "abc"); err != nil {
		t.Fatalf("Set() error: %v", err)
	}
	v, ok, err := fs.Get(KeyToken)
	if err != nil || !ok || v != "abc" {
		t.Errorf("Get() = %q, %v, %v", v, ok, err)
	}

	info, err := os.Stat(filepath.Join(dir, KeyToken))
	if err != nil {
		t.Fatal(err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Errorf("token file mode = %o, want 600", perm)
	}

	if err := fs.Delete(KeyToken); err != nil {
		t.Fatalf("Delete() error: %v", err)
	}
	if err := fs.Delete(KeyToken); err != nil {
		t.Errorf("second Delete() error: %v", err)
	}
	if _, ok, _ := fs.Get(KeyToken); ok {
		t.Error("key still present after Delete")
	}
}

func TestFileStoreSurvivesRestart(t *testing.T) {
	dir := t.TempDir()
	m := NewManager(agentLogin(), NewFileStore(dir))
	if _, err := m.Login(t.Context(), "a@b.com", "x", "agent"); err != nil {
		t.Fatal(err)
	}

	restarted := NewManager(agentLogin(), NewFileStore(dir))
	if restarted.Token() != "t1" {
		t.Errorf("Token() after restart = %q, want t1", restarted.Token())
	}
	if u := restarted.CurrentIdentity(); u == nil || u.Role != "AGENT" {
		t.Errorf("identity after restart = %+v", u)
	}
}
