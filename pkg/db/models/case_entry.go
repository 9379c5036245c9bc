package models

// CaseEntry joins a case to an item with a relative drop weight. Chance is an
// arbitrary non-negative weight; the set for one case need not sum to any
// fixed total. Entries are consumed in ascending ID order.
type CaseEntry struct {
	ID     int64   `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	CaseID int64   `gorm:"column:case_id;not null;index:idx_case_entries_case_item,unique,priority:1" json:"case_id"`
	ItemID int64   `gorm:"column:item_id;not null;index:idx_case_entries_case_item,unique,priority:2" json:"item_id"`
	Chance float64 `gorm:"column:chance;not null" json:"chance"`
}
