package snapshot

import (
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"
)

const yamlSnapshot = `
role: main
name: Jobs
children:
  - role: list
    children:
      - role: listitem
        name: "Python Developer Aloha Protocol @AlohaProtocol Remote €60K - €80K per year"
        ref: e12
        children:
          - role: listitem
            name: "Go Engineer Globex Inc @globex Remote"
            ref: e13
      - role: listitem
        name: ""
        ref: e14
      - role: link
        name: "Not a job"
        ref: e15
      - role: listitem
        name: 404
        ref: e16
`

func TestDecodeSingleRoot(t *testing.T) {
	nodes, err := Decode([]byte(yamlSnapshot))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(nodes) != 1 || nodes[0].Role != "main" {
		t.Fatalf("expected single main root, got %+v", nodes)
	}

	listings := Listings(nodes)
	refs := make([]string, 0, len(listings))
	for _, l := range listings {
		refs = append(refs, l.Ref)
	}

	if strings.Join(refs, ",") != "e12,e13,e16" {
		t.Fatalf("unexpected listing order: %v", refs)
	}

	if listings[2].Name != "404" {
		t.Fatalf("expected numeric name decoded as string, got %q", listings[2].Name)
	}
}

func TestDecodeForestFromJSON(t *testing.T) {
	data := `[{"role":"listitem","name":"A B","ref":"r1"},{"role":"listitem","name":"C D","ref":"r2","children":[]}]`

	nodes, err := Decode([]byte(data))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(nodes) != 2 || nodes[1].Ref != "r2" {
		t.Fatalf("unexpected nodes: %+v", nodes)
	}
}

func TestDecodeEmptyAndInvalid(t *testing.T) {
	nodes, err := Decode(nil)
	if err != nil || len(nodes) != 0 {
		t.Fatalf("expected empty forest, got %v, %v", nodes, err)
	}

	if _, err := Decode([]byte("just text")); err == nil {
		t.Fatalf("expected error for scalar root")
	}
}

func TestWalk(t *testing.T) {
	nodes, err := Decode([]byte(yamlSnapshot))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	fixed := time.Date(2025, 12, 13, 20, 59, 41, 0, time.UTC)
	walker := NewWalker(zap.NewNop())
	walker.Now = func() time.Time { return fixed }

	records := walker.Walk(nodes)
	if len(records) != 3 {
		t.Fatalf("expected 3 records, got %d", len(records))
	}

	first := records[0]
	if first.Title != "Python Developer" || first.Company != "Aloha Protocol" {
		t.Fatalf("unexpected parse: %+v", first)
	}
	if first.SalaryRange != "€60K - €80K per year" || first.Location != "Remote" {
		t.Fatalf("unexpected location/salary: %+v", first)
	}
	if first.Ref != "e12" {
		t.Fatalf("expected ref e12, got %s", first.Ref)
	}
	if !first.DiscoveredAt.Equal(fixed) {
		t.Fatalf("unexpected discovered_at %s", first.DiscoveredAt)
	}
	if !strings.HasPrefix(first.JobID, "temp_") || first.URL != "https://x.com/jobs/"+first.JobID {
		t.Fatalf("unexpected id/url: %s %s", first.JobID, first.URL)
	}

	if records[1].Ref != "e13" {
		t.Fatalf("expected nested listing second, got %s", records[1].Ref)
	}

	ids := map[string]bool{}
	for _, r := range records {
		if ids[r.JobID] {
			t.Fatalf("duplicate id %s", r.JobID)
		}
		ids[r.JobID] = true
	}
}

func TestWalkEmpty(t *testing.T) {
	walker := NewWalker(nil)

	if got := walker.Walk(nil); got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil slice, got %v", got)
	}

	if got := walker.Walk([]*Node{nil, {Role: "list"}}); len(got) != 0 {
		t.Fatalf("expected no records, got %v", got)
	}
}
