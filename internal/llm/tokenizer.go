package llm

import (
	"fmt"
	"sync"

	"github.com/pkoukk/tiktoken-go"
	tiktoken_loader "github.com/pkoukk/tiktoken-go-loader"
)

var offlineLoader sync.Once

// useOfflineEncodings points tiktoken at the BPE ranks embedded in the binary
// so encodings never come from the network or a download cache.
func useOfflineEncodings() {
	offlineLoader.Do(func() {
		tiktoken.SetBpeLoader(tiktoken_loader.NewOfflineLoader())
	})
}

// Tokenizer truncates prompts to the model's maximum input length.
type Tokenizer interface {
	Truncate(text string) (string, bool)
}

// TiktokenTokenizer is a BPE tokenizer backed by tiktoken-go. Encodings are
// loaded from data compiled into the binary.
type TiktokenTokenizer struct {
	encoding  *tiktoken.Tiktoken
	maxTokens int
}

// NewTiktokenTokenizer loads the named encoding, e.g. "cl100k_base".
func NewTiktokenTokenizer(encoding string, maxTokens int) (*TiktokenTokenizer, error) {
	if maxTokens <= 0 {
		return nil, fmt.Errorf("max tokens must be positive, got %d", maxTokens)
	}
	useOfflineEncodings()
	enc, err := tiktoken.GetEncoding(encoding)
	if err != nil {
		return nil, fmt.Errorf("encoding %q: %w", encoding, err)
	}
	return &TiktokenTokenizer{encoding: enc, maxTokens: maxTokens}, nil
}

// Truncate keeps the first maxTokens tokens of text.
func (t *TiktokenTokenizer) Truncate(text string) (string, bool) {
	tokens := t.encoding.Encode(text, nil, nil)
	if len(tokens) <= t.maxTokens {
		return text, false
	}
	return t.encoding.Decode(tokens[:t.maxTokens]), true
}

// Count returns the number of tokens in text
func (t *TiktokenTokenizer) Count(text string) int {
	return len(t.encoding.Encode(text, nil, nil))
}
