package ui

import (
	"errors"
	"strings"
	"testing"
)

func testTheme() *Theme {
	return NewTheme(ThemeConfig{NoColor: true})
}

func testItems() []SelectItem {
	return []SelectItem{
		{Label: "Stop the site", Value: "stop"},
		{Label: "Build & run", Value: "run", Desc: "choose a port"},
		{Label: "Exit", Value: "exit"},
	}
}

// headlessWith returns a forced-headless manager reading input.
func headlessWith(input string) (*HeadlessManager, *strings.Builder) {
	hm := NewHeadlessManager()
	hm.ForceHeadless(true)
	var out strings.Builder
	hm.SetIO(strings.NewReader(input), &out)
	return hm, &out
}

func TestHeadlessManager_ForceAndDefaults(t *testing.T) {
	hm := NewHeadlessManager()
	hm.ForceHeadless(true)
	if !hm.IsHeadless() {
		t.Error("ForceHeadless(true) not honored")
	}
	hm.ForceHeadless(false)
	if hm.IsHeadless() {
		t.Error("ForceHeadless(false) not honored")
	}

	if hm.HasDefaults() {
		t.Error("new manager has defaults")
	}
	hm.SetDefaults(map[string]string{"site_name": "Demo"})
	if v, ok := hm.GetDefault("site_name"); !ok || v != "Demo" {
		t.Errorf("GetDefault = %q, %v", v, ok)
	}
	hm.SetDefaults(nil)
	if hm.HasDefaults() {
		t.Error("SetDefaults(nil) kept defaults")
	}
}

func TestSelectHeadless(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{name: "number", input: "2\n", want: "run"},
		{name: "value", input: "EXIT\n", want: "exit"},
		{name: "no_trailing_newline", input: "1", want: "stop"},
		{name: "out_of_range", input: "9\n", wantErr: true},
		{name: "unknown", input: "dance\n", wantErr: true},
		{name: "eof", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hm, out := headlessWith(tt.input)
			got, err := NewSelector(testTheme(), hm).Select("Menu", testItems())
			if tt.wantErr {
				if err == nil {
					t.Fatalf("Select() = %q, want error", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("Select() error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Select() = %q, want %q", got, tt.want)
			}
			if !strings.Contains(out.String(), "2) Build & run") {
				t.Errorf("menu not printed: %q", out.String())
			}
		})
	}

	t.Run("invalid_is_sentinel", func(t *testing.T) {
		hm, _ := headlessWith("0\n")
		if _, err := NewSelector(testTheme(), hm).Select("Menu", testItems()); !errors.Is(err, ErrInvalidChoice) {
			t.Errorf("error = %v, want ErrInvalidChoice", err)
		}
	})

	t.Run("no_items", func(t *testing.T) {
		hm, _ := headlessWith("1\n")
		if _, err := NewSelector(testTheme(), hm).Select("Menu", nil); !errors.Is(err, ErrNoItems) {
			t.Errorf("error = %v, want ErrNoItems", err)
		}
	})

	t.Run("eof_is_no_input", func(t *testing.T) {
		hm, _ := headlessWith("")
		if _, err := NewSelector(testTheme(), hm).Select("Menu", testItems()); !errors.Is(err, ErrNoInput) {
			t.Errorf("error = %v, want ErrNoInput", err)
		}
	})
}

func TestSelectHeadless_SequentialReads(t *testing.T) {
	hm, _ := headlessWith("1\n3\n")
	s := NewSelector(testTheme(), hm)
	first, err := s.Select("Menu", testItems())
	if err != nil || first != "stop" {
		t.Fatalf("first Select() = %q, %v", first, err)
	}
	second, err := s.Select("Menu", testItems())
	if err != nil || second != "exit" {
		t.Fatalf("second Select() = %q, %v", second, err)
	}
}

func TestInputHeadless(t *testing.T) {
	positive := func(v string) error {
		if strings.HasPrefix(v, "-") {
			return errors.New("must be positive")
		}
		return nil
	}

	tests := []struct {
		name     string
		input    string
		defaults map[string]string
		opts     []InputOption
		want     string
		wantErr  bool
	}{
		{name: "typed", input: "9000\n", opts: []InputOption{WithDefault("8000")}, want: "9000"},
		{name: "empty_uses_default", input: "\n", opts: []InputOption{WithDefault("8000")}, want: "8000"},
		{name: "eof_uses_default", input: "", opts: []InputOption{WithDefault("8000")}, want: "8000"},
		{name: "eof_without_default", input: "", wantErr: true},
		{name: "validation", input: "-1\n", opts: []InputOption{WithValidate(positive)}, wantErr: true},
		{name: "stored_default_skips_read", input: "ignored\n", defaults: map[string]string{"site_name": "Stored"},
			opts: []InputOption{WithDefaultKey("site_name")}, want: "Stored"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hm, _ := headlessWith(tt.input)
			hm.SetDefaults(tt.defaults)
			got, err := NewPrompt(testTheme(), hm).Input("Port", tt.opts...)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("Input() = %q, want error", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("Input() error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Input() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestConfirmHeadless(t *testing.T) {
	tests := []struct {
		input   string
		def     bool
		want    bool
		wantErr bool
	}{
		{input: "y\n", want: true},
		{input: "NO\n", def: true, want: false},
		{input: "\n", def: true, want: true},
		{input: "", def: false, want: false},
		{input: "maybe\n", wantErr: true},
	}
	for _, tt := range tests {
		hm, _ := headlessWith(tt.input)
		got, err := NewPrompt(testTheme(), hm).Confirm("Continue?", tt.def)
		if (err != nil) != tt.wantErr {
			t.Errorf("Confirm(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			continue
		}
		if !tt.wantErr && got != tt.want {
			t.Errorf("Confirm(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestHeadlessProgressBar(t *testing.T) {
	var out strings.Builder
	hm := NewHeadlessManager()
	hm.ForceHeadless(true)
	hm.SetIO(strings.NewReader(""), &out)

	bar := NewProgress(testTheme(), hm).Start("Rendering", 2)
	bar.Increment(1)
	bar.SetTitle("about")
	bar.Increment(5)
	bar.Done()

	want := "[1/2] Rendering\n[2/2] about\n[2/2] about\n"
	if out.String() != want {
		t.Errorf("output = %q, want %q", out.String(), want)
	}
}

func TestHeadlessSpinner(t *testing.T) {
	var out strings.Builder
	hm := NewHeadlessManager()
	hm.ForceHeadless(true)
	hm.SetIO(strings.NewReader(""), &out)

	sp := NewProgress(testTheme(), hm).Spinner("Stopping server")
	sp.SetTitle("Waiting for pid 42")
	sp.Stop()

	want := "Stopping server\nWaiting for pid 42\n"
	if out.String() != want {
		t.Errorf("output = %q, want %q", out.String(), want)
	}
}
