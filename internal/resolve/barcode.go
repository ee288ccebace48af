package resolve

import "github.com/shelfport/shelfport/internal/domain"

// Barcode defaults the barcode to the source book id when the export carries
// none, so every imported book stays locatable by its original id. The
// generated value is marked autogenerated/inferred.
func Barcode(rec *domain.BookRecord) *domain.BookRecord {
	if rec.Has(domain.AttrBarcode) {
		return rec
	}
	cp := rec.Clone()
	cp.Set(domain.AttrBarcode, domain.Inferred(rec.ID, domain.OriginAutogenerated))
	return cp
}
