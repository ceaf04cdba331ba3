package news

import (
	"reflect"
	"testing"
)

func TestExtractCanonicalizesTickers(t *testing.T) {
	e := NewExtractor(nil)

	got := e.Extract("BTC holders rejoice as bitcoin climbs")
	if !reflect.DeepEqual(got, []string{"bitcoin"}) {
		t.Fatalf("expected single canonical bitcoin, got %v", got)
	}

	got = e.Extract("ADA and ETH both moved today")
	if !reflect.DeepEqual(got, []string{"cardano", "ethereum"}) {
		t.Fatalf("expected canonical names sorted, got %v", got)
	}
}

func TestExtractWholeWordOnly(t *testing.T) {
	e := NewExtractor(nil)

	if got := e.Extract("the ethernet upgrade shipped"); got != nil {
		t.Fatalf("expected no match inside longer word, got %v", got)
	}
	if got := e.Extract("unlink the chains"); got != nil {
		t.Fatalf("expected no match for embedded ticker, got %v", got)
	}
	if got := e.Extract("solid solutions"); got != nil {
		t.Fatalf("expected sol not to match prefixes, got %v", got)
	}
}

func TestExtractPunctuationBoundaries(t *testing.T) {
	e := NewExtractor(nil)

	got := e.Extract("Solana (SOL) rallies; dogecoin, too.")
	want := []string{"dogecoin", "solana"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestExtractEmptyAndUnrelatedText(t *testing.T) {
	e := NewExtractor(nil)

	if got := e.Extract(""); got != nil {
		t.Fatalf("expected nil for empty text, got %v", got)
	}
	if got := e.Extract("   "); got != nil {
		t.Fatalf("expected nil for blank text, got %v", got)
	}
	if got := e.Extract("the weather is nice today"); got != nil {
		t.Fatalf("expected nil for unrelated text, got %v", got)
	}
}

func TestExtractDeduplicates(t *testing.T) {
	e := NewExtractor(nil)

	got := e.Extract("bitcoin Bitcoin BTC btc")
	if !reflect.DeepEqual(got, []string{"bitcoin"}) {
		t.Fatalf("expected one canonical entry, got %v", got)
	}
}

func TestExtractCustomLexicon(t *testing.T) {
	e := NewExtractor(AssetLexicon{"ripple": "ripple", "xrp": "ripple"})

	got := e.Extract("XRP aka ripple ticks up while bitcoin is ignored")
	if !reflect.DeepEqual(got, []string{"ripple"}) {
		t.Fatalf("expected custom lexicon only, got %v", got)
	}
}

func TestTracked(t *testing.T) {
	e := NewExtractor(nil)

	if !e.Tracked("bitcoin") {
		t.Fatal("expected bitcoin to be tracked")
	}
	if !e.Tracked("  Solana ") {
		t.Fatal("expected trimmed case-folded lookup to work")
	}
	if e.Tracked("btc") {
		t.Fatal("expected ticker alias not to be a canonical id")
	}
	if e.Tracked("ripple") {
		t.Fatal("expected untracked asset to be rejected")
	}
}

func TestAssetsListsCanonicalIdsOnce(t *testing.T) {
	e := NewExtractor(nil)

	assets := e.Assets()
	if len(assets) != 11 {
		t.Fatalf("expected 11 canonical assets, got %d: %v", len(assets), assets)
	}
	seen := make(map[string]struct{})
	for _, a := range assets {
		if _, dup := seen[a]; dup {
			t.Fatalf("duplicate asset in list: %s", a)
		}
		seen[a] = struct{}{}
	}
	if _, ok := seen["bitcoin"]; !ok {
		t.Fatal("expected bitcoin in asset list")
	}
}
