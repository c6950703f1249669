package canonical

import "testing"

func TestCanonicalise(t *testing.T) {
	cases := []struct {
		host    string
		want    string
		wantErr bool
	}{
		{host: "www.nrc.nl", want: "nrc.nl"},
		{host: "nrc.nl", want: "nrc.nl"},
		{host: "a.b.c.nrc.nl", want: "nrc.nl"},
		{host: "www.nrc.nl:443", want: "nrc.nl"},
		{host: "NRC.NL", want: "nrc.nl"},
		{host: "localhost", wantErr: true},
		{host: "127.0.0.1", wantErr: true},
		{host: "[::1]", wantErr: true},
	}

	for _, tc := range cases {
		got, err := Canonicalise(tc.host)
		if tc.wantErr {
			if err == nil {
				t.Errorf("Canonicalise(%q): expected error, got %q", tc.host, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("Canonicalise(%q): unexpected error: %v", tc.host, err)
			continue
		}
		if got != tc.want {
			t.Errorf("Canonicalise(%q) = %q, want %q", tc.host, got, tc.want)
		}
	}
}

func TestCanonicaliseIsIdempotent(t *testing.T) {
	hosts := []string{"www.nrc.nl", "a.b.c.nrc.nl", "nrc.nl"}
	for _, h := range hosts {
		once, err := Canonicalise(h)
		if err != nil {
			t.Fatalf("Canonicalise(%q): %v", h, err)
		}
		twice, err := Canonicalise(once)
		if err != nil {
			t.Fatalf("Canonicalise(%q) second pass: %v", once, err)
		}
		if once != twice {
			t.Errorf("not idempotent: Canonicalise(%q) = %q, Canonicalise(%q) = %q", h, once, once, twice)
		}
	}
}
