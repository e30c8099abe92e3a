package apitest

import (
	"time"

	"github.com/google/uuid"
)

// doc is a stored JSON document.
type doc map[string]any

func (d doc) id() string {
	s, _ := d["_id"].(string)
	return s
}

func (d doc) owner() string {
	s, _ := d["userId"].(string)
	return s
}

func (d doc) str(key string) string {
	s, _ := d[key].(string)
	return s
}

func (d doc) num(key string) float64 {
	switch v := d[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	}
	return 0
}

func (d doc) clone() doc {
	out := make(doc, len(d))
	for k, v := range d {
		out[k] = v
	}
	return out
}

// merge copies fields onto d, leaving identity and ownership untouched.
func (d doc) merge(fields doc) {
	for k, v := range fields {
		switch k {
		case "_id", "userId", "createdAt":
			continue
		}
		d[k] = v
	}
}

func now() string { return time.Now().UTC().Format(time.RFC3339Nano) }

type collection struct {
	docs []doc
}

func (c *collection) insert(d doc) doc {
	d["_id"] = uuid.NewString()
	if _, ok := d["createdAt"]; !ok {
		d["createdAt"] = now()
	}
	c.docs = append(c.docs, d)
	return d
}

func (c *collection) get(id string) doc {
	for _, d := range c.docs {
		if d.id() == id {
			return d
		}
	}
	return nil
}

func (c *collection) remove(id string) bool {
	for i, d := range c.docs {
		if d.id() == id {
			c.docs = append(c.docs[:i], c.docs[i+1:]...)
			return true
		}
	}
	return false
}

func (c *collection) removeWhere(match func(doc) bool) int {
	kept := c.docs[:0]
	n := 0
	for _, d := range c.docs {
		if match(d) {
			n++
			continue
		}
		kept = append(kept, d)
	}
	c.docs = kept
	return n
}

// newestFirst returns the documents accepted by keep, most recently
// inserted first.
func (c *collection) newestFirst(keep func(doc) bool) []doc {
	out := make([]doc, 0, len(c.docs))
	for i := len(c.docs) - 1; i >= 0; i-- {
		if keep == nil || keep(c.docs[i]) {
			out = append(out, c.docs[i])
		}
	}
	return out
}
