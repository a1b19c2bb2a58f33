package recon

import (
	"sort"
)

// BatchIndex links purchases to sales through the shared batch reference.
//
// PurchaseByBatch holds at most one purchase per batch reference. When
// multiple purchases share a reference the later one in input order wins;
// the source data does not define an intended tie-break, so ingestion order
// is preserved rather than guessed at. SalesByBatch preserves insertion
// order within each batch. Records with an empty batch key are omitted from
// both maps.
type BatchIndex struct {
	PurchaseByBatch map[string]Purchase
	SalesByBatch    map[string][]Sale

	// AllBatches is the sorted union of keys from both maps, giving every
	// consumer a deterministic iteration order.
	AllBatches []string
}

// BuildBatchIndex builds the purchase and sale lookups from the full
// registers. It never fails; records without batch keys are simply skipped.
func BuildBatchIndex(purchases []Purchase, sales []Sale) *BatchIndex {
	ix := &BatchIndex{
		PurchaseByBatch: make(map[string]Purchase),
		SalesByBatch:    make(map[string][]Sale),
	}

	for _, p := range purchases {
		if p.BatchRefNo == "" {
			continue
		}
		ix.PurchaseByBatch[p.BatchRefNo] = p
	}

	for _, s := range sales {
		if s.BatchNo == "" {
			continue
		}
		ix.SalesByBatch[s.BatchNo] = append(ix.SalesByBatch[s.BatchNo], s)
	}

	seen := make(map[string]bool, len(ix.PurchaseByBatch))
	for ref := range ix.PurchaseByBatch {
		if !seen[ref] {
			seen[ref] = true
			ix.AllBatches = append(ix.AllBatches, ref)
		}
	}
	for ref := range ix.SalesByBatch {
		if !seen[ref] {
			seen[ref] = true
			ix.AllBatches = append(ix.AllBatches, ref)
		}
	}
	sort.Strings(ix.AllBatches)

	return ix
}

// MatchedBatches returns the number of batch keys present on both sides.
func (ix *BatchIndex) MatchedBatches() int {
	matched := 0
	for ref := range ix.PurchaseByBatch {
		if _, ok := ix.SalesByBatch[ref]; ok {
			matched++
		}
	}
	return matched
}
