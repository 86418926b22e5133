package services

import (
	"os"
	"path/filepath"
	"testing"
)

func TestRepoSlug(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"https://github.com/acme/My-Repo.git", "my-repo"},
		{"git@github.com:acme/tools.git", "tools"},
		{"https://example.com/a/b/weird..name", "weird-name"},
		{"", "repo"},
	}
	for _, tc := range tests {
		if got := repoSlug(tc.in); got != tc.want {
			t.Errorf("repoSlug(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestDiscoverFilesFiltersByExtension(t *testing.T) {
	root := t.TempDir()
	write := func(rel string) {
		path := filepath.Join(root, rel)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	write("README.md")
	write("main.go")
	write("docs/guide.md")
	write("scripts/run.py")
	write("image.png")
	write(filepath.Join(".git", "config"))

	svc := &GitService{}
	files, err := svc.DiscoverFiles(root, []string{"md", "py"})
	if err != nil {
		t.Fatal(err)
	}

	want := []string{
		filepath.Join(root, "README.md"),
		filepath.Join(root, "docs", "guide.md"),
		filepath.Join(root, "scripts", "run.py"),
	}
	if len(files) != len(want) {
		t.Fatalf("got %d files %v, want %d", len(files), files, len(want))
	}
	for i := range want {
		if files[i] != want[i] {
			t.Errorf("files[%d] = %q, want %q", i, files[i], want[i])
		}
	}
}

func TestDiscoverFilesAcceptsDottedExtensions(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, "notes.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	svc := &GitService{}
	files, err := svc.DiscoverFiles(root, []string{".txt"})
	if err != nil {
		t.Fatal(err)
	}
	if len(files) != 1 {
		t.Fatalf("got %v, want one file", files)
	}
}
