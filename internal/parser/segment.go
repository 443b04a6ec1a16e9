package parser

// Bucket is the ordered content of one recognized heading.
type Bucket struct {
	Heading Heading
	Lines   []string
}

// Sections holds the buckets of one document in first-seen order.
type Sections struct {
	order   []string
	buckets map[string]*Bucket
}

// Get returns the bucket for a label, or nil.
func (s *Sections) Get(label string) *Bucket {
	return s.buckets[label]
}

// Lines returns the lines of a label's bucket, or nil.
func (s *Sections) Lines(label string) []string {
	if b := s.buckets[label]; b != nil {
		return b.Lines
	}
	return nil
}

// Buckets returns every bucket in first-seen order.
func (s *Sections) Buckets() []*Bucket {
	out := make([]*Bucket, 0, len(s.order))
	for _, l := range s.order {
		out = append(out, s.buckets[l])
	}
	return out
}

// Segment buckets normalized lines under the active heading. Lines before
// the first heading are dropped. A repeated singleton heading does not
// re-open its bucket; its line is content of the active bucket.
func Segment(lines []string, vocab Vocabulary) *Sections {
	s := &Sections{buckets: make(map[string]*Bucket)}
	seen := make(map[string]bool)
	var active *Bucket

	for _, line := range lines {
		if h, ok := vocab.Match(line); ok {
			singleton := vocab.IsSingleton(h.Label)
			if !singleton || !seen[h.Label] {
				b := s.buckets[h.Label]
				if b == nil {
					b = &Bucket{Heading: h}
					s.buckets[h.Label] = b
					s.order = append(s.order, h.Label)
				}
				if singleton {
					seen[h.Label] = true
				}
				active = b
				continue
			}
		}
		if active != nil {
			active.Lines = append(active.Lines, line)
		}
	}
	return s
}
