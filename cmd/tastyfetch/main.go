// Command tastyfetch pulls a batch of .tasty objects from an S3-compatible
// bucket, unpickles each one, and reports success/failure per artifact
// without aborting the batch on the first error. With -listen set, it also
// streams a JSON decode event per artifact to any websocket client
// connected at /stream, for watching a large batch run live.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"sync"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
	"github.com/gorilla/websocket"

	"github.com/gaudelbinod/tastyunpickler/tasty"
	"github.com/gaudelbinod/tastyunpickler/tastydump"
	"github.com/gaudelbinod/tastyunpickler/testhost"
)

// decodeEvent is one artifact's outcome, both the final report entry and
// the shape streamed over the websocket as each artifact finishes.
type decodeEvent struct {
	Key   string          `json:"key"`
	OK    bool            `json:"ok"`
	Error string          `json:"error,omitempty"`
	Dump  *tastydump.Dump `json:"dump,omitempty"`
}

func main() {
	bucket := flag.String("bucket", "", "S3 bucket holding .tasty artifacts")
	prefix := flag.String("prefix", "", "key prefix to list under")
	region := flag.String("region", "us-east-1", "AWS region")
	listen := flag.String("listen", "", "if set, serve a live decode stream at ws://<listen>/stream while the batch runs")
	flag.Parse()

	if *bucket == "" {
		fmt.Fprintln(os.Stderr, "tastyfetch: -bucket is required")
		os.Exit(2)
	}

	var hub *streamHub
	if *listen != "" {
		hub = newStreamHub()
		mux := http.NewServeMux()
		mux.HandleFunc("/stream", hub.handleUpgrade)
		srv := &http.Server{Addr: *listen, Handler: mux}
		go func() {
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Printf("tastyfetch: stream server: %v", err)
			}
		}()
		log.Printf("tastyfetch: streaming decode events at ws://%s/stream", *listen)
	}

	sess, err := session.NewSession(&aws.Config{Region: aws.String(*region)})
	if err != nil {
		fmt.Fprintln(os.Stderr, "tastyfetch:", err)
		os.Exit(1)
	}
	svc := s3.New(sess)
	downloader := s3manager.NewDownloader(sess)

	keys, err := listKeys(svc, *bucket, *prefix)
	if err != nil {
		fmt.Fprintln(os.Stderr, "tastyfetch: list objects:", err)
		os.Exit(1)
	}

	var events []decodeEvent
	for _, key := range keys {
		ev := fetchAndDecode(downloader, *bucket, key)
		events = append(events, ev)
		if hub != nil {
			hub.broadcast(ev)
		}
	}

	out, err := json.MarshalIndent(events, "", "  ")
	if err != nil {
		fmt.Fprintln(os.Stderr, "tastyfetch:", err)
		os.Exit(1)
	}
	fmt.Println(string(out))
}

func listKeys(svc *s3.S3, bucket, prefix string) ([]string, error) {
	var keys []string
	input := &s3.ListObjectsV2Input{Bucket: aws.String(bucket)}
	if prefix != "" {
		input.Prefix = aws.String(prefix)
	}
	err := svc.ListObjectsV2Pages(input, func(page *s3.ListObjectsV2Output, lastPage bool) bool {
		for _, obj := range page.Contents {
			keys = append(keys, aws.StringValue(obj.Key))
		}
		return true
	})
	return keys, err
}

func fetchAndDecode(downloader *s3manager.Downloader, bucket, key string) decodeEvent {
	buf := aws.NewWriteAtBuffer(nil)
	_, err := downloader.Download(buf, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return decodeEvent{Key: key, Error: fmt.Sprintf("download: %v", err)}
	}

	dump, err := decode(key, buf.Bytes())
	if err != nil {
		return decodeEvent{Key: key, Error: err.Error()}
	}
	return decodeEvent{Key: key, OK: true, Dump: &dump}
}

// decode unpickles one artifact's bytes against a fresh testhost.Host; see
// cmd/tastydump's decode for the same simplified bare-name-table-then-ASTs
// file layout assumption.
func decode(artifact string, data []byte) (tastydump.Dump, error) {
	c := tasty.NewCursor(data)
	names := tasty.NewNameTable(c)

	host := testhost.NewHost()
	env := host.Env(names)
	recorder := tastydump.Wrap(env.Symbols)
	env.Symbols = recorder

	u := tasty.NewTreeUnpickler(data[int(c.CurrentAddr()):], names, env)
	defer u.Release()

	stats, err := u.Unpickle(host.RootPackage(), host.RootPackage(), nil)
	if err != nil {
		return tastydump.Dump{}, fmt.Errorf("unpickle %s: %w", artifact, err)
	}
	return tastydump.Build(artifact, recorder, stats), nil
}

// streamHub broadcasts decode events to every currently-connected
// websocket client, dropping a client the moment a write to it fails.
type streamHub struct {
	upgrade websocket.Upgrader

	mu    sync.Mutex
	conns map[*websocket.Conn]struct{}
}

func newStreamHub() *streamHub {
	return &streamHub{conns: make(map[*websocket.Conn]struct{})}
}

func (h *streamHub) handleUpgrade(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrade.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("tastyfetch: websocket upgrade: %v", err)
		return
	}
	h.mu.Lock()
	h.conns[conn] = struct{}{}
	h.mu.Unlock()
}

func (h *streamHub) broadcast(ev decodeEvent) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.conns {
		if err := conn.WriteJSON(ev); err != nil {
			conn.Close()
			delete(h.conns, conn)
		}
	}
}
