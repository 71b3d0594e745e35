package lexer

import (
	"embed"
	"fmt"
	"path"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"pascals/pkg/token"
)

// DefaultVocabulary is the register used when none is selected.
const DefaultVocabulary = "english"

//go:embed vocab/*.yaml
var vocabFS embed.FS

// Vocabulary maps the spellings of one keyword register onto normalized
// symbols. It is immutable once built.
type Vocabulary struct {
	Name        string
	Aliases     []string
	Description string

	words    map[string]token.Sym
	spelling map[token.Sym]string
	heads    map[string]bool // first halves of hyphenated words
}

type vocabFile struct {
	Name        string   `yaml:"name"`
	Aliases     []string `yaml:"aliases"`
	Description string   `yaml:"description"`
	Words       []struct {
		Word   string `yaml:"word"`
		Symbol string `yaml:"symbol"`
	} `yaml:"words"`
}

// ParseVocabulary decodes and validates a YAML keyword register. Every word
// symbol of the grammar must be spelled exactly once.
func ParseVocabulary(data []byte) (*Vocabulary, error) {
	var f vocabFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("decode vocabulary: %w", err)
	}
	if f.Name == "" {
		return nil, fmt.Errorf("vocabulary has no name")
	}

	v := &Vocabulary{
		Name:        strings.ToLower(f.Name),
		Aliases:     f.Aliases,
		Description: f.Description,
		words:       make(map[string]token.Sym, len(f.Words)),
		spelling:    make(map[token.Sym]string, len(f.Words)),
		heads:       make(map[string]bool),
	}
	for _, w := range f.Words {
		word := strings.ToLower(strings.TrimSpace(w.Word))
		if !validWord(word) {
			return nil, fmt.Errorf("vocabulary %s: invalid word %q", v.Name, w.Word)
		}
		sym, ok := token.SymByName(w.Symbol)
		if !ok || !sym.IsWord() {
			return nil, fmt.Errorf("vocabulary %s: word %q maps to unknown symbol %q", v.Name, w.Word, w.Symbol)
		}
		if prev, dup := v.words[word]; dup {
			return nil, fmt.Errorf("vocabulary %s: word %q listed for both %s and %s", v.Name, word, prev, sym)
		}
		if _, dup := v.spelling[sym]; dup {
			return nil, fmt.Errorf("vocabulary %s: symbol %s spelled twice", v.Name, sym)
		}
		v.words[word] = sym
		v.spelling[sym] = word
		if head, _, ok := strings.Cut(word, "-"); ok {
			v.heads[head] = true
		}
	}

	var missing []string
	for s := token.None + 1; s.IsWord(); s++ {
		if _, ok := v.spelling[s]; !ok {
			missing = append(missing, s.String())
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("vocabulary %s: no spelling for %s", v.Name, strings.Join(missing, ", "))
	}
	return v, nil
}

// validWord accepts letter-led words of letters and digits, optionally
// joined by single hyphens.
func validWord(w string) bool {
	if w == "" {
		return false
	}
	for _, part := range strings.Split(w, "-") {
		if part == "" {
			return false
		}
		for i, r := range part {
			c := classify(r)
			if c != cLetter && (i == 0 || c != cDigit) {
				return false
			}
		}
	}
	return true
}

// Match returns the symbol spelled by lexeme, ignoring case.
func (v *Vocabulary) Match(lexeme string) (token.Sym, bool) {
	s, ok := v.words[strings.ToLower(lexeme)]
	return s, ok
}

// Spelling returns the register's word for s, or "" when s is not a word.
func (v *Vocabulary) Spelling(s token.Sym) string {
	return v.spelling[s]
}

// ReservedWords returns the register's spellings of token.Reserved, in order.
func (v *Vocabulary) ReservedWords() []string {
	out := make([]string, len(token.Reserved))
	for i, s := range token.Reserved {
		out[i] = v.spelling[s]
	}
	return out
}

// hyphenHead reports whether word starts a hyphenated vocabulary word.
func (v *Vocabulary) hyphenHead(word string) bool {
	return v.heads[strings.ToLower(word)]
}

var registry struct {
	once   sync.Once
	byName map[string]*Vocabulary
	names  []string
	err    error
}

func loadRegistry() {
	registry.byName = make(map[string]*Vocabulary)
	entries, err := vocabFS.ReadDir("vocab")
	if err != nil {
		registry.err = err
		return
	}
	for _, e := range entries {
		data, err := vocabFS.ReadFile(path.Join("vocab", e.Name()))
		if err != nil {
			registry.err = err
			return
		}
		v, err := ParseVocabulary(data)
		if err != nil {
			registry.err = fmt.Errorf("%s: %w", e.Name(), err)
			return
		}
		registry.names = append(registry.names, v.Name)
		registry.byName[v.Name] = v
		for _, a := range v.Aliases {
			registry.byName[strings.ToLower(a)] = v
		}
	}
	sort.Strings(registry.names)
}

// Lookup returns a built-in register by name or alias.
func Lookup(name string) (*Vocabulary, error) {
	registry.once.Do(loadRegistry)
	if registry.err != nil {
		return nil, registry.err
	}
	if name == "" {
		name = DefaultVocabulary
	}
	v, ok := registry.byName[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("unknown vocabulary %q (available: %s)", name, strings.Join(registry.names, ", "))
	}
	return v, nil
}

// Names lists the built-in registers.
func Names() []string {
	registry.once.Do(loadRegistry)
	return append([]string(nil), registry.names...)
}

// MustLookup is Lookup for registers known to be embedded.
func MustLookup(name string) *Vocabulary {
	v, err := Lookup(name)
	if err != nil {
		panic(err)
	}
	return v
}
