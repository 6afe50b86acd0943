package web

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/2beens/hoosfit/internal/fitness/workouts"

	log "github.com/sirupsen/logrus"
)

const maxFormBytes = 1 << 20

// parseRepsForm reads the url-encoded body keeping the order the pairs were
// submitted in, which url.Values cannot. Every pair is a name=reps entry,
// reps still unparsed. Only a failed body read is an error.
func parseRepsForm(w http.ResponseWriter, r *http.Request) ([]workouts.RepsEntry, int, error) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxFormBytes))
	if err != nil {
		return nil, 0, fmt.Errorf("read form body: %w", err)
	}
	entries, undecodable := parseRepsPairs(body)
	return entries, undecodable, nil
}

// parseRepsPairs maps names to reps: a name submitted more than once keeps
// its first position and takes its last value. Pairs that cannot be
// unescaped are dropped and counted.
func parseRepsPairs(body []byte) ([]workouts.RepsEntry, int) {
	var entries []workouts.RepsEntry
	positions := make(map[string]int)
	undecodable := 0

	for _, pair := range bytes.Split(body, []byte("&")) {
		if len(pair) == 0 {
			continue
		}
		rawName, rawReps, _ := bytes.Cut(pair, []byte("="))
		name, err := url.QueryUnescape(string(rawName))
		if err != nil {
			log.Debugf("reps form: dropping pair with name %q: %s", rawName, err)
			undecodable++
			continue
		}
		reps, err := url.QueryUnescape(string(rawReps))
		if err != nil {
			log.Debugf("reps form: dropping reps of %q: %s", name, err)
			undecodable++
			continue
		}

		name = strings.TrimSpace(name)
		if i, ok := positions[name]; ok {
			entries[i].Reps = reps
			continue
		}
		positions[name] = len(entries)
		entries = append(entries, workouts.RepsEntry{Name: name, Reps: reps})
	}
	return entries, undecodable
}
