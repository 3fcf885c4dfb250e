package shellwords

import (
	"errors"
	"reflect"
	"testing"
)

func TestSplit(t *testing.T) {
	tests := []struct {
		name    string
		line    string
		want    []string
		wantErr error
	}{
		{
			name: "plain whitespace split",
			line: "ls -la /tmp",
			want: []string{"ls", "-la", "/tmp"},
		},
		{
			name: "whitespace runs collapse",
			line: "  a \t b   c  ",
			want: []string{"a", "b", "c"},
		},
		{
			name: "double quoted word with space",
			line: `echo "a b" c`,
			want: []string{"echo", "a b", "c"},
		},
		{
			name: "single quoted word",
			line: `grep 'a b c' file`,
			want: []string{"grep", "a b c", "file"},
		},
		{
			name: "empty quoted word",
			line: `printf "" x`,
			want: []string{"printf", "", "x"},
		},
		{
			name: "backslash escapes space",
			line: `cat my\ file.txt`,
			want: []string{"cat", "my file.txt"},
		},
		{
			name: "escaped quote inside double quotes",
			line: `echo "say \"hi\""`,
			want: []string{"echo", `say "hi"`},
		},
		{
			name: "backslash literal inside single quotes",
			line: `echo 'a\nb'`,
			want: []string{"echo", `a\nb`},
		},
		{
			name: "adjacent quoted and unquoted",
			line: `echo pre"mid dle"post`,
			want: []string{"echo", "premid dlepost"},
		},
		{
			name: "empty line",
			line: "",
			want: nil,
		},
		{
			name: "whitespace only",
			line: "   \t ",
			want: nil,
		},
		{
			name:    "unterminated single quote",
			line:    "echo 'oops",
			wantErr: ErrUnterminatedQuote,
		},
		{
			name:    "unterminated double quote",
			line:    `echo "oops`,
			wantErr: ErrUnterminatedQuote,
		},
		{
			name:    "trailing escape",
			line:    `echo oops\`,
			wantErr: ErrTrailingEscape,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Split(tt.line)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Split() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Split() unexpected error: %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Split() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSplit_ErrorNamesOffset(t *testing.T) {
	_, err := Split("echo 'oops")
	if err == nil {
		t.Fatal("Expected error for unterminated quote")
	}
	if got := err.Error(); got != "single quote opened at offset 5: unterminated quote" {
		t.Errorf("Unexpected error message: %s", got)
	}
}
