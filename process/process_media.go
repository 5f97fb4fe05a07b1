package main

import (
	"flag"
	"log"
	"math"
	"net/http"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/disintegration/imaging"
	"github.com/fsnotify/fsnotify"
	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"goltrip/models"
	"goltrip/pkg/scorecard"
)

// ocrRecognizer re-runs text recognition when retrying failed scorecard
// uploads; swapped for a stub in tests.
var ocrRecognizer scorecard.Recognizer = &scorecard.TesseractRecognizer{}

// Global DB handle for helper funcs
var db *gorm.DB

// global flags (parsed in main)
var verbose bool

// MIME mapping to avoid opening files repeatedly
var extMime = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".webp": "image/webp",
	".mp4":  "video/mp4",
	".mov":  "video/quicktime",
}

// kindDirs maps a media subdirectory to the upload kind recorded for blobs
// found in it. Files outside these subdirectories are ignored.
var kindDirs = map[string]string{
	"avatars":    "avatar",
	"posts":      "post",
	"scorecards": "scorecard",
}

// maxBlobBytes is the size above which an image blob gets downscaled in
// place. Videos are never touched.
const maxBlobBytes = 2_000_000

// preload cache of uploads keyed by store path so the scan stays at two
// queries regardless of tree size.
type preloadState struct {
	uploadsByPath map[string]*models.Upload
	mu            sync.RWMutex
}

func newPreloadState() *preloadState {
	return &preloadState{uploadsByPath: make(map[string]*models.Upload, 1024)}
}

func (ps *preloadState) get(storePath string) (*models.Upload, bool) {
	ps.mu.RLock()
	defer ps.mu.RUnlock()
	u, ok := ps.uploadsByPath[storePath]
	return u, ok
}

func (ps *preloadState) put(u *models.Upload) {
	ps.mu.Lock()
	ps.uploadsByPath[u.StorePath] = u
	ps.mu.Unlock()
}

func mustInitDBFromEnv() *gorm.DB {
	dsn := os.Getenv("DB_DSN")
	if dsn == "" {
		log.Fatalf("DB_DSN must be set in environment to run this tool")
	}
	gdb, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	return gdb
}

// Main: reconciles the on-disk media tree with Upload rows. Blobs uploaded
// out of band (restores, manual copies) get backfilled rows, rows missing
// content types get filled, oversized images get downscaled, and scorecard
// blobs flagged as failed get their OCR retried. Optional watch mode keeps
// doing this for new files.
func main() {
	_ = godotenv.Load()
	baseFlag := flag.String("base", "media", "media base directory to scan")
	profileID := flag.Uint("profile-id", 0, "Profile ID to assign backfilled uploads to (if omitted attempts admin profile)")
	dryRun := flag.Bool("dry-run", false, "Skip all DB writes; just report what would change")
	watch := flag.Bool("watch", false, "Watch media subdirectories for new files")
	workers := flag.Int("workers", 0, "Worker pool size (default NumCPU)")
	flag.BoolVar(&verbose, "verbose", false, "Verbose per-file logging")
	flag.Parse()

	files := listMediaFiles(*baseFlag)
	if *dryRun {
		log.Printf("Dry-run: scanning %s (no DB interaction)", *baseFlag)
		for _, f := range files {
			log.Printf("candidate %s kind=%s mime=%s", f, kindFor(f), mimeFromExt(f))
		}
		log.Printf("Found %d candidate files", len(files))
		return
	}

	db = mustInitDBFromEnv()
	profile := resolveProfile(*profileID)
	ps := preloadAll()
	log.Printf("Preloaded: uploads=%d", len(ps.uploadsByPath))

	log.Printf("Scanning %d files (workers=%d)", len(files), effectiveWorkers(*workers))
	runWorkerPool(*baseFlag, profile, ps, files, effectiveWorkers(*workers))

	if *watch {
		if err := watchMediaTree(*baseFlag, profile, ps, effectiveWorkers(*workers)); err != nil {
			log.Fatalf("watch failed: %v", err)
		}
	}
}

func effectiveWorkers(w int) int {
	if w <= 0 {
		return runtime.NumCPU()
	}
	return w
}

func logV(format string, args ...any) {
	if verbose {
		log.Printf(format, args...)
	}
}

// preloadAll fetches all existing uploads to minimize per-file queries.
func preloadAll() *preloadState {
	ps := newPreloadState()
	var ups []models.Upload
	if err := db.Find(&ups).Error; err == nil {
		for i := range ups {
			u := ups[i]
			ps.uploadsByPath[u.StorePath] = &u
		}
	}
	return ps
}

// resolveProfile finds the profile either by explicit id or by the seeded
// admin account.
func resolveProfile(id uint) models.Profile {
	var p models.Profile
	if id != 0 {
		if err := db.First(&p, id).Error; err != nil {
			log.Fatalf("failed to find profile id %d: %v", id, err)
		}
		return p
	}
	var admin models.User
	if err := db.Where("email = ?", "admin@goltrip.local").First(&admin).Error; err != nil {
		log.Fatalf("no --profile-id provided and admin user not found: %v", err)
	}
	if err := db.Where("user_id = ?", admin.ID).First(&p).Error; err != nil {
		log.Fatalf("admin profile not found: %v", err)
	}
	return p
}

// listMediaFiles returns store paths (relative to base, slash-separated) of
// all supported files under the known kind subdirectories.
func listMediaFiles(base string) []string {
	var out []string
	for sub := range kindDirs {
		entries, err := os.ReadDir(filepath.Join(base, sub))
		if err != nil {
			continue
		}
		for _, e := range entries {
			if e.IsDir() || !isSupportedExt(e.Name()) {
				continue
			}
			out = append(out, sub+"/"+e.Name())
		}
	}
	sort.Strings(out)
	return out
}

func kindFor(storePath string) string {
	sub, _, ok := strings.Cut(storePath, "/")
	if !ok {
		return ""
	}
	return kindDirs[sub]
}

func watchMediaTree(base string, profile models.Profile, ps *preloadState, workers int) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()
	for sub := range kindDirs {
		dir := filepath.Join(base, sub)
		_ = os.MkdirAll(dir, 0755)
		if err := w.Add(dir); err != nil {
			return err
		}
	}
	log.Printf("Watching %s media tree (debounced) ...", base)

	fileCh := make(chan string, 256)
	go func() {
		// simple debounce map of pending store paths
		pending := map[string]time.Time{}
		ticker := time.NewTicker(250 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case ev, ok := <-w.Events:
				if !ok {
					close(fileCh)
					return
				}
				if ev.Op&fsnotify.Create == fsnotify.Create {
					name := filepath.Base(ev.Name)
					if !isSupportedExt(name) {
						continue
					}
					sub := filepath.Base(filepath.Dir(ev.Name))
					if _, known := kindDirs[sub]; !known {
						continue
					}
					pending[sub+"/"+name] = time.Now()
				}
			case <-ticker.C:
				now := time.Now()
				for sp, t := range pending {
					if now.Sub(t) > 300*time.Millisecond { // stable
						fileCh <- sp
						delete(pending, sp)
					}
				}
			case err, ok := <-w.Errors:
				if !ok {
					close(fileCh)
					return
				}
				log.Printf("watch error: %v", err)
			}
		}
	}()

	// Use worker pool for watch events too
	go runWorkerPool(base, profile, ps, nil, workers, fileCh)
	// block forever (Ctrl+C to exit)
	select {}
}

func isSupportedExt(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	_, ok := extMime[ext]
	return ok
}

// worker pool orchestrator
func runWorkerPool(base string, profile models.Profile, ps *preloadState, initial []string, workers int, extraCh ...<-chan string) {
	fileCh := make(chan string, 1024)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for sp := range fileCh {
				processSingleFile(base, sp, profile, ps)
			}
		}()
	}
	// feed initial
	go func() {
		for _, f := range initial {
			fileCh <- f
		}
		// also relay from extra channels if provided
		for _, ch := range extraCh {
			go func(c <-chan string) {
				for n := range c {
					fileCh <- n
				}
			}(ch)
		}
		// if no extraCh (scan only) close when done
		if len(extraCh) == 0 {
			close(fileCh)
		}
	}()
	if len(extraCh) == 0 {
		wg.Wait()
	}
}

// processSingleFile backfills or repairs the Upload row for one store path
// using preloaded maps and minimal queries.
func processSingleFile(base, storePath string, profile models.Profile, ps *preloadState) {
	fullPath := filepath.Join(base, filepath.FromSlash(storePath))
	name := filepath.Base(storePath)

	up, exists := ps.get(storePath)
	if !exists {
		newUp := models.Upload{ProfileID: profile.ID, FileName: name, StorePath: storePath, Kind: kindFor(storePath)}
		if ct := contentTypeFor(name, fullPath); ct != "" {
			newUp.ContentType = ct
		}
		if err := db.Create(&newUp).Error; err != nil {
			if isUniqueConstraintError(err) { // race: someone else created
				if err2 := db.Where("store_path = ?", storePath).First(&newUp).Error; err2 != nil {
					log.Printf("WARN fetch after race failed %s: %v", storePath, err2)
					return
				}
			} else {
				log.Printf("ERROR create upload %s: %v", storePath, err)
				return
			}
		}
		ps.put(&newUp)
		up = &newUp
		log.Printf("NEW upload id=%d path=%s kind=%s", newUp.ID, storePath, newUp.Kind)
	}

	// Fill missing fields cheaply
	changed := false
	if up.ContentType == "" {
		if ct := contentTypeFor(name, fullPath); ct != "" {
			up.ContentType = ct
			changed = true
		}
	}
	if up.Kind == "" {
		up.Kind = kindFor(storePath)
		changed = true
	}

	// Scorecard blobs flagged by the analyze flow get their OCR retried; a
	// usable result clears the flag so the image is analyzable again.
	if retryScorecardOCR(ocrRecognizer, base, up) {
		up.Failed = false
		up.FailedReason = ""
		changed = true
		log.Printf("RETRY ok upload id=%d path=%s", up.ID, storePath)
	}

	if changed {
		_ = db.Save(up).Error
	}

	if strings.HasPrefix(up.ContentType, "image/") {
		if err := shrinkOversized(fullPath); err != nil {
			logV("shrink fail %s: %v", storePath, err)
		}
	}
}

// retryScorecardOCR re-runs text recognition for a scorecard blob that
// previously failed OCR and reports whether the retry produced usable text.
// Uploads that are healthy or not scorecards are left alone.
func retryScorecardOCR(rec scorecard.Recognizer, base string, up *models.Upload) bool {
	if up.Kind != "scorecard" || !up.Failed {
		return false
	}
	r, err := rec.Recognize(filepath.Join(base, filepath.FromSlash(up.StorePath)))
	if err != nil {
		logV("retry still failing %s: %v", up.StorePath, err)
		return false
	}
	return strings.TrimSpace(r.Text) != ""
}

// contentTypeFor resolves a MIME type by extension, sniffing the file as a
// fallback.
func contentTypeFor(name, fullPath string) string {
	if ct := mimeFromExt(name); ct != "" {
		return ct
	}
	return sniffContentType(fullPath)
}

// sniffContentType reads first 512 bytes and returns MIME type.
func sniffContentType(path string) string { // fallback only
	f, err := os.Open(path)
	if err != nil {
		return ""
	}
	defer f.Close()
	buf := make([]byte, 512)
	n, _ := f.Read(buf)
	if n == 0 {
		return ""
	}
	return http.DetectContentType(buf[:n])
}

func mimeFromExt(name string) string {
	ext := strings.ToLower(filepath.Ext(name))
	if m, ok := extMime[ext]; ok {
		return m
	}
	return "" // sniff later if needed
}

func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	s := err.Error()
	return strings.Contains(s, "duplicate key") || strings.Contains(s, "unique constraint") || strings.Contains(s, "already exists")
}

// shrinkOversized downscales an image blob in place when it exceeds
// maxBlobBytes. The scale factor comes from sqrt(max/current) since encoded
// size roughly tracks pixel area.
func shrinkOversized(fullPath string) error {
	fi, err := os.Stat(fullPath)
	if err != nil {
		return err
	}
	if fi.Size() <= maxBlobBytes {
		return nil
	}
	img, err := imaging.Open(fullPath)
	if err != nil {
		return err
	}
	scale := math.Sqrt(float64(maxBlobBytes) / float64(fi.Size()))
	if scale > 0.95 {
		scale = 0.95
	}
	if scale < 0.1 { // avoid absurd downscale
		scale = 0.1
	}
	w := img.Bounds().Dx()
	h := img.Bounds().Dy()
	newW := int(math.Max(1, math.Round(float64(w)*scale)))
	newH := int(math.Max(1, math.Round(float64(h)*scale)))
	img = imaging.Resize(img, newW, newH, imaging.Lanczos)
	if err := imaging.Save(img, fullPath); err != nil {
		return err
	}
	// If still > maxBlobBytes, one more uniform 80% pass
	if fi2, err2 := os.Stat(fullPath); err2 == nil && fi2.Size() > maxBlobBytes {
		img2, errOpen2 := imaging.Open(fullPath)
		if errOpen2 == nil {
			img2 = imaging.Resize(img2, int(float64(img2.Bounds().Dx())*0.8), 0, imaging.Lanczos)
			_ = imaging.Save(img2, fullPath)
		}
	}
	log.Printf("SHRUNK %s from %d bytes", fullPath, fi.Size())
	return nil
}
