package transcript

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalizeCollapsesWhitespace(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		raw  string
		want string
	}{
		{name: "empty", raw: "", want: ""},
		{name: "whitespace only", raw: " \t\n ", want: ""},
		{name: "single word", raw: "hello", want: "hello"},
		{name: "interior runs", raw: "hello   there \t friend", want: "hello there friend"},
		{name: "surrounding whitespace", raw: "  hello there\n", want: "hello there"},
		{name: "newlines between segments", raw: "first segment\nsecond segment", want: "first segment second segment"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			require.Equal(t, tt.want, Normalize(tt.raw, Options{}))
		})
	}
}

func TestNormalizeCapitalizesSentences(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		raw  string
		want string
	}{
		{
			name: "first word",
			raw:  "hello there. how are you",
			want: "Hello there. How are you",
		},
		{
			name: "question and exclamation",
			raw:  "really? yes! great",
			want: "Really? Yes! Great",
		},
		{
			name: "already capitalized is unchanged",
			raw:  "Hello there. How are you?",
			want: "Hello there. How are you?",
		},
		{
			name: "decimal number is not a boundary",
			raw:  "pi is 3.14 roughly. next topic",
			want: "Pi is 3.14 roughly. Next topic",
		},
		{
			name: "domain name is not a boundary",
			raw:  "visit example.com today. tell a friend",
			want: "Visit example.com today. Tell a friend",
		},
		{
			name: "title abbreviation continues the sentence",
			raw:  "we saw dr. smith yesterday",
			want: "We saw dr. smith yesterday",
		},
		{
			name: "abbreviation before a capital ends the sentence",
			raw:  "turn left at the blvd. Then keep going",
			want: "Turn left at the blvd. Then keep going",
		},
		{
			name: "initialism continues the sentence",
			raw:  "she works for the u.s. government now",
			want: "She works for the u.s. government now",
		},
		{
			name: "latin abbreviation stays lowercase at a start",
			raw:  "bring tools. e.g. a hammer",
			want: "Bring tools. e.g. a hammer",
		},
		{
			name: "boundary followed by quote",
			raw:  `he said. "come over here"`,
			want: `He said. "Come over here"`,
		},
		{
			name: "digit after boundary resets without capitalizing",
			raw:  "count them. 3 birds flew off. they left",
			want: "Count them. 3 birds flew off. They left",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			require.Equal(t, tt.want, Normalize(tt.raw, Options{CapitalizeSentences: true}))
		})
	}
}

func TestNormalizePronounI(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		raw  string
		want string
	}{
		{
			name: "standalone pronoun",
			raw:  "maybe i should go",
			want: "Maybe I should go",
		},
		{
			name: "contractions",
			raw:  "i'm sure i'll go and i've packed",
			want: "I'm sure I'll go and I've packed",
		},
		{
			name: "curly apostrophe contraction",
			raw:  "well i’m ready",
			want: "Well I’m ready",
		},
		{
			name: "letter i inside words is untouched",
			raw:  "it is idiomatic",
			want: "It is idiomatic",
		},
		{
			name: "latin abbreviation keeps its i",
			raw:  "use the short form, i.e. the one above",
			want: "Use the short form, i.e. the one above",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			require.Equal(t, tt.want, Normalize(tt.raw, Options{CapitalizeSentences: true}))
		})
	}
}

func TestNormalizeWithoutCapitalization(t *testing.T) {
	t.Parallel()

	got := Normalize("maybe i should go. or not", Options{})
	require.Equal(t, "maybe i should go. or not", got)
}

func TestNormalizeIdempotent(t *testing.T) {
	t.Parallel()

	raw := "hello there. i'm visiting dr. smith at 3.15 today! see example.com"
	opts := Options{CapitalizeSentences: true}

	once := Normalize(raw, opts)
	twice := Normalize(once, opts)
	require.Equal(t, once, twice)
}
