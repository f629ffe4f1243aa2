package all

import (
	"testing"

	"retailclean/internal/storage"
)

func TestBuiltInKindsRegistered(t *testing.T) {
	got := map[string]bool{}
	for _, k := range storage.ListKinds() {
		got[k] = true
	}
	for _, want := range []string{"mssql", "postgres", "sqlite"} {
		if !got[want] {
			t.Fatalf("kind %q not registered; have %v", want, storage.ListKinds())
		}
	}
}
