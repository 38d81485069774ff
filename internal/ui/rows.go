package ui

import "bam/internal/domain"

// row is one rendered list entry
type row struct {
	app     domain.App
	visible bool
}

// rowList is the rendering layer the filter toggles. It implements filter.Source.
type rowList []row

func newRowList(apps []domain.App) rowList {
	rows := make(rowList, len(apps))
	for i, a := range apps {
		rows[i] = row{app: a, visible: true}
	}
	return rows
}

func (r rowList) Len() int { return len(r) }

// Label returns the app name. An app without a name has no label.
func (r rowList) Label(i int) (string, bool) {
	name := r[i].app.Name
	return name, name != ""
}

func (r rowList) SetVisible(i int, visible bool) { r[i].visible = visible }

// visibleIndices returns the indices of visible rows in list order
func (r rowList) visibleIndices() []int {
	var idx []int
	for i, row := range r {
		if row.visible {
			idx = append(idx, i)
		}
	}
	return idx
}
