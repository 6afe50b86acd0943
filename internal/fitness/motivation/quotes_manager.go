package motivation

import (
	"bufio"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"strings"

	log "github.com/sirupsen/logrus"
)

//go:embed quotes.txt
var defaultQuotes string

// QuotesManager holds an immutable list of motivational quotes, one per line.
type QuotesManager struct {
	quotes []string
	// ability to inject the index picker (for unit testing)
	IntnFunc func(n int) int
}

func NewDefaultQuotesManager() *QuotesManager {
	qm, err := NewQuotesManager(strings.NewReader(defaultQuotes))
	if err != nil {
		// embedded at build time, covered by tests
		panic(fmt.Sprintf("default quotes: %s", err))
	}
	return qm
}

func NewQuotesManager(r io.Reader) (*QuotesManager, error) {
	qm := &QuotesManager{
		IntnFunc: rand.Intn,
	}

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		qm.quotes = append(qm.quotes, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read quotes: %w", err)
	}

	if len(qm.quotes) == 0 {
		return nil, errors.New("no quotes found")
	}

	log.Debugf("quotes read: %d", len(qm.quotes))
	return qm, nil
}

// RandomQuote picks uniformly, wrapped in double quotes for display.
func (qm *QuotesManager) RandomQuote() string {
	return `"` + qm.quotes[qm.IntnFunc(len(qm.quotes))] + `"`
}

func (qm *QuotesManager) Count() int {
	return len(qm.quotes)
}
