package storage

import "testing"

func TestSanitizeFilename(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"photo.png", "photo.png"},
		{"../../etc/passwd", "passwd"},
		{"my photo (1).jpg", "my_photo__1_.jpg"},
		{"", "file"},
	}
	for _, tc := range cases {
		if got := sanitizeFilename(tc.in); got != tc.want {
			t.Fatalf("sanitizeFilename(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestPublicURL(t *testing.T) {
	u := &Uploader{publicHost: "https://cdn.example.com/"}
	got := u.PublicURL("avatars", "u1/photo.png")
	want := "https://cdn.example.com/avatars/u1/photo.png"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}
