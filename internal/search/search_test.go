package search

import (
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/papapumpkin/atlas/internal/model"
)

func fixtureIndex(opts ...Option) *Index {
	caps := []model.Capability{
		{ID: "cap-lang", Name: "Language Modeling", Description: "Predicting the next token"},
	}
	landmarks := []model.Landmark{
		{ID: "landmark-attn", Name: "Attention Is All You Need", Tags: []string{"transformer", "architecture"}, Description: "Introduced self-attention layers"},
		{ID: "landmark-gpt3", Name: "GPT-3", Tags: []string{"few-shot"}, Description: "A 175B parameter model"},
	}
	orgs := []model.Organization{
		{ID: "org-openai", Name: "OpenAI", Description: "Research company"},
	}
	return New(caps, landmarks, orgs, opts...)
}

func ids(results []Result) []string {
	out := []string{}
	for _, r := range results {
		out = append(out, r.ID)
	}
	return out
}

func TestSearch_Exactish(t *testing.T) {
	t.Parallel()

	ix := fixtureIndex()
	if ix.Len() != 4 {
		t.Fatalf("Len = %d, want 4", ix.Len())
	}

	res := ix.Search("attention", 0)
	if len(res) == 0 || res[0].ID != "landmark-attn" {
		t.Fatalf("Search(attention) = %v", ids(res))
	}
	if res[0].EntityType != model.EntityLandmark {
		t.Errorf("EntityType = %q", res[0].EntityType)
	}
	if res[0].Score <= 0 || res[0].Score > 0.1 {
		t.Errorf("substring score = %v, want (0, 0.1]", res[0].Score)
	}
	name := res[0].Matches[0]
	if name.Key != "name" || name.Indices[0] != [2]int{0, 8} {
		t.Errorf("first match = %+v", name)
	}
	if _, ok := res[0].Item.(model.Landmark); !ok {
		t.Errorf("Item is %T, want model.Landmark", res[0].Item)
	}
	if got := res[0].Ref(); got != (model.EntityRef{Type: model.EntityLandmark, ID: "landmark-attn"}) {
		t.Errorf("Ref = %+v", got)
	}

	exact := ix.Search("OpenAI", 5)
	if len(exact) != 1 || exact[0].Score != 0 {
		t.Errorf("exact name search = %+v", exact)
	}
}

func TestSearch_Typo(t *testing.T) {
	t.Parallel()

	res := fixtureIndex().Search("atention", 0)
	if len(res) == 0 || res[0].ID != "landmark-attn" {
		t.Fatalf("Search(atention) = %v", ids(res))
	}
	if res[0].Score == 0 {
		t.Error("fuzzy match should not score as exact")
	}
}

func TestSearch_ShortAndBlank(t *testing.T) {
	t.Parallel()

	ix := fixtureIndex()
	for _, q := range []string{"", "   ", "a"} {
		if got := ix.Search(q, 10); got != nil {
			t.Errorf("Search(%q) = %v, want nil", q, ids(got))
		}
	}
}

func TestSearch_NoMatch(t *testing.T) {
	t.Parallel()

	if got := fixtureIndex().Search("zzzzqqqq", 10); len(got) != 0 {
		t.Errorf("Search(zzzzqqqq) = %v", ids(got))
	}
}

func TestSearch_WeightsFavorName(t *testing.T) {
	t.Parallel()

	landmarks := []model.Landmark{{ID: "lm-desc", Name: "Chinchilla", Description: "Scaling Laws"}}
	orgs := []model.Organization{{ID: "org-name", Name: "Scaling Laws"}}
	res := New(nil, landmarks, orgs).Search("scaling", 0)

	if diff := cmp.Diff([]string{"org-name", "lm-desc"}, ids(res)); diff != "" {
		t.Errorf("ranking mismatch (-want +got):\n%s", diff)
	}
	if res[1].Score != 2*res[0].Score {
		t.Errorf("description score %v should be twice name score %v", res[1].Score, res[0].Score)
	}
}

func TestSearch_Limit(t *testing.T) {
	t.Parallel()

	var landmarks []model.Landmark
	for i := 0; i < 25; i++ {
		landmarks = append(landmarks, model.Landmark{ID: fmt.Sprintf("lm-%02d", i), Name: fmt.Sprintf("Transformer %d", i)})
	}
	ix := New(nil, landmarks, nil)

	if got := len(ix.Search("transformer", 0)); got != DefaultLimit {
		t.Errorf("default limit returned %d", got)
	}
	if got := len(ix.Search("transformer", 3)); got != 3 {
		t.Errorf("limit 3 returned %d", got)
	}
}

func TestWithThreshold(t *testing.T) {
	t.Parallel()

	strict := fixtureIndex(WithThreshold(0))
	if got := strict.Search("atention", 0); len(got) != 0 {
		t.Errorf("strict index matched typo: %v", ids(got))
	}
	ignored := fixtureIndex(WithThreshold(3))
	if ignored.threshold != DefaultThreshold {
		t.Errorf("out-of-range threshold applied: %v", ignored.threshold)
	}
}

func TestFilters(t *testing.T) {
	t.Parallel()

	results := []Result{
		{ID: "a", EntityType: model.EntityCapability, Score: 0.05},
		{ID: "b", EntityType: model.EntityLandmark, Score: 0.3},
		{ID: "c", EntityType: model.EntityOrganization, Score: 0.5},
	}
	if diff := cmp.Diff([]string{"a", "c"}, ids(FilterByEntityType(results, model.EntityCapability, model.EntityOrganization))); diff != "" {
		t.Errorf("FilterByEntityType mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"a", "b"}, ids(FilterByScore(results, 0.3))); diff != "" {
		t.Errorf("FilterByScore mismatch (-want +got):\n%s", diff)
	}
}
