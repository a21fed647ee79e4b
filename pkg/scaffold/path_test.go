package scaffold

import "testing"

func TestCompose(t *testing.T) {
	tests := []struct {
		name     string
		segments []string
		want     string
	}{
		{"single", []string{"app"}, "app"},
		{"nested", []string{"app", "scripts"}, "app/scripts"},
		{"multi-segment value", []string{"web/client", "js/ng", "app.js"}, "web/client/js/ng/app.js"},
		{"dot segments collapse", []string{"./app", ".", "scripts/"}, "app/scripts"},
		{"inner traversal collapses", []string{"app", "lib/../fonts"}, "app/fonts"},
		{"traversal clamped at root", []string{"..", "..", "etc"}, "etc"},
		{"absolute clamped at root", []string{"/etc", "passwd"}, "etc/passwd"},
		{"hidden folder", []string{".dev"}, ".dev"},
		{"empty", nil, "."},
		{"only dots", []string{".", ".."}, "."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Compose(tt.segments...); got != tt.want {
				t.Errorf("Compose(%q) = %q, want %q", tt.segments, got, tt.want)
			}
		})
	}
}

func TestDir(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"README.md", "."},
		{"config/.jshintrc", "config"},
		{"app/scripts/app.js", "app/scripts"},
	}
	for _, tt := range tests {
		if got := Dir(tt.in); got != tt.want {
			t.Errorf("Dir(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestIsAncestor(t *testing.T) {
	tests := []struct {
		dir, p string
		want   bool
	}{
		{"app", "app/scripts", true},
		{"app", "app", false},
		{"app", "apple/x", false},
		{".", "app", false},
	}
	for _, tt := range tests {
		if got := isAncestor(tt.dir, tt.p); got != tt.want {
			t.Errorf("isAncestor(%q, %q) = %v, want %v", tt.dir, tt.p, got, tt.want)
		}
	}
}
