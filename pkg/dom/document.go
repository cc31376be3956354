package dom

// MutationRecord describes one low-level tree mutation: either the nodes
// newly added by an attach, or the parent of a node whose text changed.
// Records are delivered in mutation order and are never coalesced; batching
// is the consumer's job.
type MutationRecord struct {
	Added       []*Node
	TextChanged *Node
}

// Document owns the root of a node tree and fans mutations out to observers.
// Like Node, a Document must only be used from a single goroutine.
type Document struct {
	root      *Node
	observers []*Observer
}

// NewDocument creates a document with an empty root node
func NewDocument() *Document {
	doc := &Document{}
	root := NewNode("body")
	root.doc = doc
	doc.root = root
	return doc
}

// Root returns the document's root node
func (d *Document) Root() *Node {
	return d.root
}

// Observe registers a new single-consumer observer with the given channel
// buffer. Records published while the buffer is full are counted and
// dropped; the consumer is expected to rescan rather than rely on lossless
// delivery under pathological backpressure.
func (d *Document) Observe(buffer int) *Observer {
	if buffer <= 0 {
		buffer = 256
	}
	obs := &Observer{
		c:   make(chan MutationRecord, buffer),
		doc: d,
	}
	obs.C = obs.c
	d.observers = append(d.observers, obs)
	return obs
}

func (d *Document) notify(rec MutationRecord) {
	for _, obs := range d.observers {
		select {
		case obs.c <- rec:
		default:
			obs.dropped++
		}
	}
}

// Observer is a single-consumer mutation stream attached to a document
type Observer struct {
	// C delivers mutation records in order until Disconnect
	C   <-chan MutationRecord
	c   chan MutationRecord
	doc *Document

	dropped int
}

// Dropped returns how many records were discarded due to a full buffer
func (o *Observer) Dropped() int {
	return o.dropped
}

// Disconnect detaches the observer from the document and closes its channel
func (o *Observer) Disconnect() {
	for i, obs := range o.doc.observers {
		if obs == o {
			o.doc.observers = append(o.doc.observers[:i], o.doc.observers[i+1:]...)
			break
		}
	}
	close(o.c)
}
