package layout

import (
	"fmt"
	"strings"

	"github.com/mcoot/portfolio/internal/model"
)

// FlashMessage is a one-shot notice carried across a redirect
type FlashMessage struct {
	Type    string // "info" or "error"
	Message string
}

// PageData holds data shared by every full page
type PageData struct {
	Title string
	Flash *FlashMessage
}

const siteName = "Portfolio"

func pageTitle(title string) string {
	if title == "" {
		return siteName
	}
	return title + " | " + siteName
}

const baseStyles = `body{background:#0f0f12;color:#e4e4e7;font-family:system-ui,sans-serif}` +
	`main{max-width:48rem;margin:0 auto;padding:2rem}` +
	`.board{position:relative;display:inline-block;background:#232328}` +
	`.row{display:flex}.cell{width:24px;height:24px;box-sizing:border-box;border:1px solid #18181b}` +
	`.overlay{position:absolute;inset:0;display:flex;flex-direction:column;align-items:center;` +
	`justify-content:center;background:rgba(0,0,0,.6);text-align:center}` +
	`.overlay button{all:unset;position:absolute;inset:0;cursor:pointer}`

// Stylesheet returns the site CSS. Cell colors follow the piece table, keyed
// by the data-type attribute of each cell.
func Stylesheet() string {
	var b strings.Builder
	b.WriteString(baseStyles)
	types := append([]model.PieceType{0}, model.AllPieceTypes()...)
	for _, t := range types {
		fmt.Fprintf(&b, `.cell[data-type="%d"]{background:%s}`, t, t.Color())
	}
	return b.String()
}
