// Package assistant answers free-text questions about a document.
package assistant

import (
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"
)

// Responder produces an answer to query given the document text.
type Responder interface {
	Respond(query, text string) string
}

const excerptWords = 20

var templates = []string{
	"Analizzando il documento, ho trovato informazioni relative alla tua domanda '%s'. Nel documento si menziona che...",
	"Basandomi sul contenuto del documento, posso rispondere che il tuo quesito '%s' è collegato a...",
	"Ho esaminato il documento e in risposta a '%s', posso dirti che...",
	"La tua domanda '%s' è interessante. Dal documento emerge che...",
	"Ho analizzato il testo e per quanto riguarda '%s', il documento indica che...",
}

// Canned is a stand-in Responder: a templated reply followed by a random
// excerpt of the document. It does not understand the text.
type Canned struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

// NewCanned returns a Canned responder. A nil rnd seeds from the clock.
func NewCanned(rnd *rand.Rand) *Canned {
	if rnd == nil {
		rnd = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Canned{rnd: rnd}
}

func (c *Canned) Respond(query, text string) string {
	c.mu.Lock()
	defer c.mu.Unlock()

	reply := fmt.Sprintf(templates[c.rnd.Intn(len(templates))], query)
	return reply + " '" + c.excerpt(text) + "...'"
}

// excerpt samples excerptWords distinct words in random order, or returns
// the whole text when it is short.
func (c *Canned) excerpt(text string) string {
	words := strings.Fields(text)
	if len(words) <= excerptWords {
		return text
	}
	picked := make([]string, excerptWords)
	for i, j := range c.rnd.Perm(len(words))[:excerptWords] {
		picked[i] = words[j]
	}
	return strings.Join(picked, " ")
}
