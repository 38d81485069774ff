package ui

import (
	"bam/internal/domain"
)

// AppsChangedMsg replaces the listed apps, e.g. after the apps dir changed
type AppsChangedMsg struct {
	Apps []domain.App
}

// helpPagerMsg contains the result of the help pager
type helpPagerMsg struct {
	err error
}

// clearStatusMsg clears the status line
type clearStatusMsg struct{}
