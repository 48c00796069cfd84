package shopee

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"os/exec"
	"strings"
	"sync"
	"time"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"

	"shopee-analyzer/config"
	"shopee-analyzer/utils"
)

// searchAPIMarker identifies the marketplace's internal search responses
// among the traffic observed while a results page renders.
const searchAPIMarker = "search_items"

var userAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
}

func randomUserAgent() string {
	return userAgents[rand.Intn(len(userAgents))]
}

// Session is one exclusive browsing session against the marketplace. It can
// navigate, hand over intercepted search-API payloads, and expose the
// rendered markup. Close releases the underlying browser on every exit path.
type Session interface {
	Navigate(ctx context.Context, url string) error
	WaitForPayload(ctx context.Context, window time.Duration) ([]byte, bool)
	HTML(ctx context.Context) (string, error)
	Close()
}

// SessionFactory opens browsing sessions. Implementations bound the number
// of simultaneously open sessions, since each one is a browser process.
type SessionFactory interface {
	Open(ctx context.Context) (Session, error)
}

// ChromeSessionFactory opens headless Chrome sessions via chromedp with
// passive network interception enabled. Session slots are capped by a
// buffered-channel semaphore.
type ChromeSessionFactory struct {
	cfg    *config.Config
	logger *utils.Logger
	slots  chan struct{}
}

// NewChromeSessionFactory creates a factory bounded to cfg.MaxSessions
// concurrent sessions.
func NewChromeSessionFactory(cfg *config.Config, logger *utils.Logger) *ChromeSessionFactory {
	max := cfg.MaxSessions
	if max < 1 {
		max = 1
	}
	return &ChromeSessionFactory{
		cfg:    cfg,
		logger: logger,
		slots:  make(chan struct{}, max),
	}
}

// Open launches a browser session, blocking while the session pool is full.
func (f *ChromeSessionFactory) Open(ctx context.Context) (Session, error) {
	select {
	case f.slots <- struct{}{}:
	case <-ctx.Done():
		return nil, fmt.Errorf("session pool: %w", ctx.Err())
	}

	chromeBin := f.cfg.ChromeBin
	if chromeBin == "" {
		chromeBin = findChromeBinary()
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-setuid-sandbox", true),
		chromedp.Flag("window-size", "1920,1080"),
		chromedp.UserAgent(randomUserAgent()),
	)
	if chromeBin != "" {
		opts = append(opts, chromedp.ExecPath(chromeBin))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)

	// Suppress chromedp log noise
	taskCtx, cancelTask := chromedp.NewContext(allocCtx,
		chromedp.WithLogf(func(string, ...interface{}) {}))

	s := &chromeSession{
		ctx:    taskCtx,
		notify: make(chan struct{}, 1),
		close: func() {
			cancelTask()
			cancelAlloc()
			<-f.slots
		},
	}
	s.listen()

	// Start the browser eagerly so launch failures surface here, not on
	// the first navigation.
	if err := chromedp.Run(taskCtx, network.Enable()); err != nil {
		s.Close()
		return nil, fmt.Errorf("launch browser: %w", err)
	}

	return s, nil
}

type chromeSession struct {
	ctx    context.Context
	notify chan struct{}

	mu       sync.Mutex
	payloads [][]byte

	closeOnce sync.Once
	close     func()
}

// listen registers the passive response listener before any navigation, so
// payloads arriving during page load are not missed.
func (s *chromeSession) listen() {
	chromedp.ListenTarget(s.ctx, func(ev interface{}) {
		resp, ok := ev.(*network.EventResponseReceived)
		if !ok {
			return
		}
		if resp.Response.Status != 200 || !strings.Contains(resp.Response.URL, searchAPIMarker) {
			return
		}

		reqID := resp.RequestID
		go func() {
			var body []byte
			err := chromedp.Run(s.ctx, chromedp.ActionFunc(func(ctx context.Context) error {
				var err error
				body, err = network.GetResponseBody(reqID).Do(ctx)
				return err
			}))
			if err != nil || len(body) == 0 {
				return
			}

			s.mu.Lock()
			s.payloads = append(s.payloads, body)
			s.mu.Unlock()

			select {
			case s.notify <- struct{}{}:
			default:
			}
		}()
	})
}

func (s *chromeSession) Navigate(ctx context.Context, url string) error {
	navCtx, cancel := mergeDeadline(s.ctx, ctx)
	defer cancel()

	if err := chromedp.Run(navCtx, chromedp.Navigate(url)); err != nil {
		return fmt.Errorf("navigate %s: %w", url, err)
	}
	return nil
}

// WaitForPayload blocks until an intercepted search-API payload is available
// or the window elapses. The second return value is false on timeout.
func (s *chromeSession) WaitForPayload(ctx context.Context, window time.Duration) ([]byte, bool) {
	deadline := time.NewTimer(window)
	defer deadline.Stop()

	for {
		if p := s.takePayload(); p != nil {
			return p, true
		}
		select {
		case <-s.notify:
		case <-deadline.C:
			return nil, false
		case <-ctx.Done():
			return nil, false
		case <-s.ctx.Done():
			return nil, false
		}
	}
}

func (s *chromeSession) takePayload() []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.payloads) == 0 {
		return nil
	}
	p := s.payloads[0]
	s.payloads = s.payloads[1:]
	return p
}

func (s *chromeSession) HTML(ctx context.Context) (string, error) {
	htmlCtx, cancel := mergeDeadline(s.ctx, ctx)
	defer cancel()

	var html string
	if err := chromedp.Run(htmlCtx, chromedp.OuterHTML("html", &html, chromedp.ByQuery)); err != nil {
		return "", fmt.Errorf("outer html: %w", err)
	}
	return html, nil
}

func (s *chromeSession) Close() {
	s.closeOnce.Do(s.close)
}

// mergeDeadline derives a child of the session context that also respects
// the caller context's deadline and cancellation.
func mergeDeadline(sessionCtx, callCtx context.Context) (context.Context, context.CancelFunc) {
	if deadline, ok := callCtx.Deadline(); ok {
		ctx, cancel := context.WithDeadline(sessionCtx, deadline)
		stop := context.AfterFunc(callCtx, cancel)
		return ctx, func() { stop(); cancel() }
	}
	ctx, cancel := context.WithCancel(sessionCtx)
	stop := context.AfterFunc(callCtx, cancel)
	return ctx, func() { stop(); cancel() }
}

// findChromeBinary locates a Chrome/Chromium binary.
func findChromeBinary() string {
	if bin := os.Getenv("CHROME_BIN"); bin != "" {
		return bin
	}

	names := []string{"google-chrome-stable", "google-chrome", "chromium", "chromium-browser"}
	for _, name := range names {
		if path, err := exec.LookPath(name); err == nil {
			return path
		}
	}

	paths := []string{
		"/usr/bin/google-chrome-stable",
		"/usr/bin/google-chrome",
		"/usr/bin/chromium-browser",
		"/usr/bin/chromium",
		"/snap/bin/chromium",
		"/opt/google/chrome/google-chrome",
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	return ""
}
