package ner

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"unicode"
)

// WordPieceTokenizer is a minimal BERT-style tokenizer that tracks byte
// offsets so token labels can be mapped back onto the original text.
type WordPieceTokenizer struct {
	vocab        map[string]int64
	lowerCase    bool
	clsID        int64
	sepID        int64
	padID        int64
	unkID        int64
	continuation string
}

// LoadWordPieceTokenizer builds a tokenizer from a vocab.txt file, one token
// per line, line number = token id.
func LoadWordPieceTokenizer(path string) (*WordPieceTokenizer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open vocab: %w", err)
	}
	defer f.Close()

	vocab := make(map[string]int64)
	scanner := bufio.NewScanner(f)
	var id int64
	for scanner.Scan() {
		token := strings.TrimRight(scanner.Text(), "\r\n")
		if _, dup := vocab[token]; !dup {
			vocab[token] = id
		}
		id++
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read vocab: %w", err)
	}

	t := &WordPieceTokenizer{
		vocab:        vocab,
		lowerCase:    true,
		continuation: "##",
	}
	var ok bool
	if t.clsID, ok = vocab["[CLS]"]; !ok {
		return nil, fmt.Errorf("vocab missing [CLS]")
	}
	if t.sepID, ok = vocab["[SEP]"]; !ok {
		return nil, fmt.Errorf("vocab missing [SEP]")
	}
	if t.unkID, ok = vocab["[UNK]"]; !ok {
		return nil, fmt.Errorf("vocab missing [UNK]")
	}
	if t.padID, ok = vocab["[PAD]"]; !ok {
		t.padID = 0
	}
	return t, nil
}

// Encode produces input ids and an attention mask of length seqLen.
func (t *WordPieceTokenizer) Encode(text string, seqLen int) ([]int64, []int64) {
	ids, mask, _ := t.EncodeWithOffsets(text, seqLen)
	return ids, mask
}

// EncodeWithOffsets additionally returns each token's byte range in text.
// Special and padding tokens carry the range (-1, -1).
func (t *WordPieceTokenizer) EncodeWithOffsets(text string, seqLen int) ([]int64, []int64, []tokenOffset) {
	if seqLen <= 0 {
		seqLen = 256
	}

	ids := make([]int64, seqLen)
	mask := make([]int64, seqLen)
	offsets := make([]tokenOffset, seqLen)
	for i := range offsets {
		offsets[i] = tokenOffset{Start: -1, End: -1}
	}

	ids[0] = t.clsID
	mask[0] = 1
	pos := 1

	for _, w := range splitWords(text) {
		if pos >= seqLen-1 {
			break
		}
		pieces := t.wordPieces(w)
		for _, p := range pieces {
			if pos >= seqLen-1 {
				break
			}
			ids[pos] = p.id
			mask[pos] = 1
			offsets[pos] = tokenOffset{Start: p.start, End: p.end}
			pos++
		}
	}

	ids[pos] = t.sepID
	mask[pos] = 1
	for i := pos + 1; i < seqLen; i++ {
		ids[i] = t.padID
	}
	return ids, mask, offsets
}

type word struct {
	text  string
	start int
	end   int
}

type piece struct {
	id    int64
	start int
	end   int
}

// splitWords breaks text into letter/digit runs and single punctuation
// marks, each annotated with its byte range.
func splitWords(text string) []word {
	var words []word
	start := -1
	for i, r := range text {
		switch {
		case unicode.IsSpace(r):
			if start >= 0 {
				words = append(words, word{text: text[start:i], start: start, end: i})
				start = -1
			}
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			if start >= 0 {
				words = append(words, word{text: text[start:i], start: start, end: i})
				start = -1
			}
			end := i + len(string(r))
			words = append(words, word{text: text[i:end], start: i, end: end})
		default:
			if start < 0 {
				start = i
			}
		}
	}
	if start >= 0 {
		words = append(words, word{text: text[start:], start: start, end: len(text)})
	}
	return words
}

// wordPieces greedily matches the longest vocab prefixes of one word. A word
// with no matching prefix becomes a single [UNK] covering the whole word.
func (t *WordPieceTokenizer) wordPieces(w word) []piece {
	s := w.text
	if t.lowerCase {
		s = strings.ToLower(s)
	}

	var pieces []piece
	offset := 0
	for offset < len(s) {
		end := len(s)
		var matched string
		var matchedID int64
		found := false
		for end > offset {
			candidate := s[offset:end]
			if offset > 0 {
				candidate = t.continuation + candidate
			}
			if id, ok := t.vocab[candidate]; ok {
				matched = s[offset:end]
				matchedID = id
				found = true
				break
			}
			end--
		}
		if !found {
			return []piece{{id: t.unkID, start: w.start, end: w.end}}
		}
		pieces = append(pieces, piece{
			id:    matchedID,
			start: w.start + offset,
			end:   w.start + offset + len(matched),
		})
		offset += len(matched)
	}
	return pieces
}
