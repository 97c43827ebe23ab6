// Package web serves a sprite library over HTTP: metadata as JSON, frames
// and sprite sheets as PNG, and animations as GIF.
package web

import (
	"bytes"
	"encoding/json"
	"fmt"
	"image"
	"image/gif"
	"image/png"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/golang/glog"
	"github.com/gorilla/mux"
	"github.com/vincent-petithory/dataurl"

	"badc0de.net/pkg/go-aseprite/ase"
	"badc0de.net/pkg/go-aseprite/library"
	"badc0de.net/pkg/go-aseprite/render"
)

// generation is part of every ETag; bump it if the way images are
// generated changes.
const generation = 1

const maxScale = 16

type Handler struct {
	libLock sync.RWMutex
	lib     *library.Library

	thumbW, thumbH uint
}

// NewHandler constructs a web handler serving lib. Thumbnails embedded in
// sprite info are scaled to fit thumb.
func NewHandler(lib *library.Library, thumb library.ThumbnailConfig) *Handler {
	return &Handler{lib: lib, thumbW: thumb.Width, thumbH: thumb.Height}
}

// SetLibrary swaps the served library, for example after a reload.
func (h *Handler) SetLibrary(lib *library.Library) {
	h.libLock.Lock()
	defer h.libLock.Unlock()
	h.lib = lib
}

func (h *Handler) library() *library.Library {
	h.libLock.RLock()
	defer h.libLock.RUnlock()
	return h.lib
}

func (h *Handler) sprite(w http.ResponseWriter, r *http.Request) (*library.Sprite, bool) {
	name := mux.Vars(r)["name"]
	s, ok := h.library().Get(name)
	if !ok {
		http.Error(w, fmt.Sprintf("no sprite %q", name), http.StatusNotFound)
		return nil, false
	}
	return s, true
}

// notModified sets the caching headers and answers 304 if the client
// already has this version.
func notModified(w http.ResponseWriter, r *http.Request, s *library.Sprite, kind, mime string) bool {
	etag := fmt.Sprintf(`W/"%s:%d:%s:%d:%s:%s"`, kind, generation, s.Name, s.ModTime.UnixNano(), r.URL.RawQuery, mime)
	w.Header().Set("Cache-Control", "public, max-age=3600")
	w.Header().Set("ETag", etag)
	if r.Header.Get("If-None-Match") == etag {
		w.WriteHeader(http.StatusNotModified)
		return true
	}
	w.Header().Set("Content-Type", mime)
	w.Header().Set("Last-Modified", s.ModTime.UTC().Format(http.TimeFormat))
	return false
}

func intParam(r *http.Request, name string, def, min, max int) (int, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < min || n > max {
		return 0, fmt.Errorf("%s must be a number in [%d,%d]", name, min, max)
	}
	return n, nil
}

type spriteListEntry struct {
	Name      string `json:"name"`
	Size      string `json:"size"`
	Frames    int    `json:"frames"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
	Modified  string `json:"modified"`
	Thumbnail string `json:"thumbnail_url"`
}

func (h *Handler) listHandler(w http.ResponseWriter, r *http.Request) {
	lib := h.library()
	out := []spriteListEntry{}
	for _, name := range lib.Names() {
		s, ok := lib.Get(name)
		if !ok {
			continue
		}
		out = append(out, spriteListEntry{
			Name:      s.Name,
			Size:      humanize.Bytes(uint64(s.Size)),
			Frames:    len(s.Doc.Frames),
			Width:     int(s.Doc.Header.Width),
			Height:    int(s.Doc.Header.Height),
			Modified:  humanize.Time(s.ModTime),
			Thumbnail: "/sprite/" + s.Name + "/0.png?thumb=1",
		})
	}
	writeJSON(w, out)
}

type layerInfo struct {
	Name      string `json:"name"`
	Type      string `json:"type"`
	Visible   bool   `json:"visible"`
	Opacity   uint8  `json:"opacity"`
	BlendMode uint16 `json:"blend_mode"`
	Level     uint16 `json:"level"`
}

type frameInfo struct {
	Duration int64  `json:"duration_ms"`
	Chunks   int    `json:"chunks"`
	Preview  string `json:"preview,omitempty"`
}

type tagInfo struct {
	Name      string `json:"name"`
	From      int    `json:"from"`
	To        int    `json:"to"`
	Direction string `json:"direction"`
	Repeat    int    `json:"repeat"`
	Color     string `json:"color"`
}

type sliceInfo struct {
	Name string `json:"name"`
	Keys int    `json:"keys"`
}

type spriteInfo struct {
	Name        string      `json:"name"`
	Size        string      `json:"size"`
	SizeBytes   int64       `json:"size_bytes"`
	Width       int         `json:"width"`
	Height      int         `json:"height"`
	ColorDepth  int         `json:"color_depth"`
	PixelRatio  string      `json:"pixel_ratio"`
	PaletteSize int         `json:"palette_size"`
	Duration    int64       `json:"duration_ms"`
	Layers      []layerInfo `json:"layers"`
	Frames      []frameInfo `json:"frames"`
	Tags        []tagInfo   `json:"tags"`
	Slices      []sliceInfo `json:"slices"`
}

var layerTypeNames = map[ase.LayerType]string{
	ase.LayerNormal:  "normal",
	ase.LayerGroup:   "group",
	ase.LayerTilemap: "tilemap",
}

func (h *Handler) infoHandler(w http.ResponseWriter, r *http.Request) {
	s, ok := h.sprite(w, r)
	if !ok {
		return
	}
	if notModified(w, r, s, "info", "application/json") {
		return
	}
	doc := s.Doc
	info := spriteInfo{
		Name:        s.Name,
		Size:        humanize.Bytes(uint64(s.Size)),
		SizeBytes:   s.Size,
		Width:       int(doc.Header.Width),
		Height:      int(doc.Header.Height),
		ColorDepth:  int(doc.Header.ColorDepth),
		PixelRatio:  doc.Header.PixelRatio(),
		PaletteSize: doc.Header.PaletteSize(),
		Duration:    doc.Duration().Milliseconds(),
		Layers:      []layerInfo{},
		Frames:      []frameInfo{},
		Tags:        []tagInfo{},
		Slices:      []sliceInfo{},
	}
	for _, l := range doc.Layers() {
		info.Layers = append(info.Layers, layerInfo{
			Name:      l.Name,
			Type:      layerTypeNames[l.LayerType],
			Visible:   l.Visible(),
			Opacity:   l.Opacity,
			BlendMode: l.BlendMode,
			Level:     l.ChildLevel,
		})
	}
	withPreviews := r.URL.Query().Get("previews") != ""
	for i, f := range doc.Frames {
		fi := frameInfo{Duration: f.Duration.Milliseconds(), Chunks: len(f.Chunks)}
		if withPreviews {
			u, err := h.previewURL(doc, i)
			if err != nil {
				glog.Errorf("preview of %s frame %d: %v", s.Name, i, err)
			}
			fi.Preview = u
		}
		info.Frames = append(info.Frames, fi)
	}
	for _, t := range doc.Tags() {
		info.Tags = append(info.Tags, tagInfo{
			Name:      t.Name,
			From:      int(t.From),
			To:        int(t.To),
			Direction: t.Direction.String(),
			Repeat:    int(t.Repeat),
			Color:     fmt.Sprintf("#%02x%02x%02x", t.Color.R, t.Color.G, t.Color.B),
		})
	}
	for _, sl := range doc.Slices() {
		info.Slices = append(info.Slices, sliceInfo{Name: sl.Name, Keys: len(sl.Keys)})
	}
	writeJSON(w, info)
}

// previewURL renders a thumbnail of frame i as a data: URL.
func (h *Handler) previewURL(doc *ase.Document, i int) (string, error) {
	img, err := render.Frame(doc, i)
	if err != nil {
		return "", err
	}
	buf := &bytes.Buffer{}
	if err := png.Encode(buf, render.Thumbnail(img, h.thumbW, h.thumbH)); err != nil {
		return "", err
	}
	return dataurl.New(buf.Bytes(), "image/png").String(), nil
}

func (h *Handler) frameHandler(w http.ResponseWriter, r *http.Request) {
	s, ok := h.sprite(w, r)
	if !ok {
		return
	}
	idx, err := strconv.Atoi(mux.Vars(r)["frame"])
	if err != nil || idx >= len(s.Doc.Frames) {
		http.Error(w, "frame out of range", http.StatusNotFound)
		return
	}
	scale, err := intParam(r, "scale", 1, 1, maxScale)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if notModified(w, r, s, "frame"+strconv.Itoa(idx), "image/png") {
		return
	}

	frame, err := render.Frame(s.Doc, idx)
	if err != nil {
		glog.Errorf("rendering %s frame %d: %v", s.Name, idx, err)
		http.Error(w, "failed to render frame", http.StatusInternalServerError)
		return
	}
	var img image.Image = frame
	if r.URL.Query().Get("thumb") != "" {
		img = render.Thumbnail(img, h.thumbW, h.thumbH)
	} else {
		img = render.Scale(img, scale)
	}
	writePNG(w, img)
}

func (h *Handler) sheetHandler(w http.ResponseWriter, r *http.Request) {
	s, ok := h.sprite(w, r)
	if !ok {
		return
	}
	cols, err := intParam(r, "cols", 0, 0, len(s.Doc.Frames))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if notModified(w, r, s, "sheet", "image/png") {
		return
	}
	sheet, err := render.Atlas(s.Doc, cols)
	if err != nil {
		glog.Errorf("rendering sheet of %s: %v", s.Name, err)
		http.Error(w, "failed to render sheet", http.StatusInternalServerError)
		return
	}
	writePNG(w, sheet.Image)
}

func (h *Handler) gifHandler(w http.ResponseWriter, r *http.Request) {
	s, ok := h.sprite(w, r)
	if !ok {
		return
	}
	scale, err := intParam(r, "scale", 1, 1, maxScale)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	tag := r.URL.Query().Get("tag")
	if tag != "" {
		if _, ok := render.FindTag(s.Doc, tag); !ok {
			http.Error(w, fmt.Sprintf("no tag %q", tag), http.StatusNotFound)
			return
		}
	}
	if notModified(w, r, s, "gif", "image/gif") {
		return
	}

	start := time.Now()
	g, err := render.GIF(s.Doc, render.GIFOptions{Tag: tag, Scale: scale})
	if err != nil {
		glog.Errorf("rendering gif of %s: %v", s.Name, err)
		http.Error(w, "failed to render animation", http.StatusInternalServerError)
		return
	}
	glog.V(2).Infof("gif of %s rendered in %v", s.Name, time.Since(start))
	w.WriteHeader(http.StatusOK)
	if err := gif.EncodeAll(w, g); err != nil {
		glog.Errorf("writing gif of %s: %v", s.Name, err)
	}
}

func writePNG(w http.ResponseWriter, img image.Image) {
	w.WriteHeader(http.StatusOK)
	if err := png.Encode(w, img); err != nil {
		glog.Errorf("writing png: %v", err)
	}
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		glog.Errorf("writing json: %v", err)
	}
}

// RegisterRoutes adds the handler's routes to r.
func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/sprites", h.listHandler).Methods(http.MethodGet)
	r.HandleFunc("/sitemap.xml", h.sitemapHandler).Methods(http.MethodGet)
	r.HandleFunc("/sprite/{name:.+}.json", h.infoHandler).Methods(http.MethodGet)
	r.HandleFunc("/sprite/{name:.+}.sheet.png", h.sheetHandler).Methods(http.MethodGet)
	r.HandleFunc("/sprite/{name:.+}.gif", h.gifHandler).Methods(http.MethodGet)
	r.HandleFunc("/sprite/{name:.+}/{frame:[0-9]+}.png", h.frameHandler).Methods(http.MethodGet)
}
