package render

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"html"
	"io"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"longview/internal/textutil"
)

//go:embed assets
var assetFS embed.FS

// popupWrapWidth is the column at which popup arguments are wrapped.
const popupWrapWidth = 71

// TemplatePack holds the per-deployment popup and stylesheet text.
//
// Popup templates substitute %n (node id), %t (row title), %d (dates) and
// %1, %2, ... (row arguments).
type TemplatePack struct {
	Popup      string `yaml:"popup"`
	Notify     string `yaml:"notify"`
	Stylesheet string `yaml:"stylesheet"`
}

// DefaultTemplatePack returns the built-in templates.
func DefaultTemplatePack() TemplatePack {
	return TemplatePack{
		Popup:      mustAsset("assets/popup.html"),
		Notify:     mustAsset("assets/notify.html"),
		Stylesheet: mustAsset("assets/styles.css"),
	}
}

// LoadTemplatePack reads a YAML template pack. Keys left out keep their
// built-in text. An empty path returns the defaults.
func LoadTemplatePack(path string) (TemplatePack, error) {
	pack := DefaultTemplatePack()
	if strings.TrimSpace(path) == "" {
		return pack, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return pack, fmt.Errorf("read template pack: %w", err)
	}
	var override TemplatePack
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&override); err != nil && !errors.Is(err, io.EOF) {
		return pack, fmt.Errorf("parse template pack %s: %w", path, err)
	}
	if override.Popup != "" {
		pack.Popup = override.Popup
	}
	if override.Notify != "" {
		pack.Notify = override.Notify
	}
	if override.Stylesheet != "" {
		pack.Stylesheet = override.Stylesheet
	}
	return pack, nil
}

// ExpandPopup fills a popup template. Substituted values are HTML escaped;
// arguments are wrapped at 71 columns.
func ExpandPopup(template, nodeID, dates, title string, args []string) string {
	pairs := make([]string, 0, 2*len(args)+6)
	// Higher argument numbers first so %12 is never read as %1 followed by 2.
	for i := len(args); i >= 1; i-- {
		pairs = append(pairs, "%"+strconv.Itoa(i), html.EscapeString(textutil.Wrap(args[i-1], popupWrapWidth)))
	}
	pairs = append(pairs,
		"%n", html.EscapeString(nodeID),
		"%t", html.EscapeString(title),
		"%d", html.EscapeString(dates),
	)
	return strings.NewReplacer(pairs...).Replace(strings.ReplaceAll(template, `\n`, "\n"))
}

func mustAsset(name string) string {
	data, err := assetFS.ReadFile(name)
	if err != nil {
		panic(err)
	}
	return string(data)
}
