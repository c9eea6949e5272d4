package domain

import "time"

// Message is one decoded firehose event. Immutable after decoding.
type Message struct {
	Text      string
	Langs     []string
	CreatedAt time.Time
	CID       string
	DID       string
}

// HasLang reports whether the message declares the given language code.
func (m Message) HasLang(code string) bool {
	for _, l := range m.Langs {
		if l == code {
			return true
		}
	}
	return false
}

// EmbeddedMessage pairs a message with its embedding vector.
// All vectors in a run share the same dimension.
type EmbeddedMessage struct {
	Message Message
	Vector  []float32
}

// Cluster is a non-empty group of density-reachable embedded messages.
// A message belongs to at most one cluster.
type Cluster struct {
	Members []EmbeddedMessage
}

// Size returns the number of members.
func (c Cluster) Size() int { return len(c.Members) }

// Texts returns member texts in cluster order.
func (c Cluster) Texts() []string {
	texts := make([]string, len(c.Members))
	for i, m := range c.Members {
		texts[i] = m.Message.Text
	}
	return texts
}

// TopicSummary is the chart-ready label and size of one cluster.
type TopicSummary struct {
	Label string
	Size  int
}
