package server

import (
	"fmt"
	"net/http"

	"github.com/BDubDesigns/git-rich-quick/internal/game"
	"github.com/a-h/templ"
)

//go:generate templ generate

func (a *api) statusPage(w http.ResponseWriter, r *http.Request) {
	templ.Handler(StatusPage(a.view(), a.routes.List())).ServeHTTP(w, r)
}

func lockLabel(unlocked bool) string {
	if unlocked {
		return "available"
	}
	return "locked"
}

func nextCostLabel(o game.OpenSourceView) string {
	if o.Maxed {
		return "maxed"
	}
	return fmt.Sprintf("%d LOC", o.NextCost)
}
