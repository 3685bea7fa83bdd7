package web

import (
	"log"
	"net/http"
	"time"
)

// CustomResponseWriter allows to store current status code of ResponseWriter.
type CustomResponseWriter struct {
	http.ResponseWriter
	Status int
}

func (w *CustomResponseWriter) WriteHeader(statusCode int) {
	w.Status = statusCode
	w.ResponseWriter.WriteHeader(statusCode)
}

func NilHandler(w http.ResponseWriter, _ *http.Request) {
	w.Write([]byte{})
}

func WrapCustomRW(wr http.ResponseWriter) *CustomResponseWriter {
	if cw, ok := wr.(*CustomResponseWriter); ok {
		return cw
	}
	// defaults to ok, handlers might not call WriteHeader at all
	return &CustomResponseWriter{ResponseWriter: wr, Status: http.StatusOK}
}

// Logger logs one line per request when verbose is set
func Logger(handler http.Handler, name string, verbose bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t0 := time.Now()
		cw := WrapCustomRW(w)
		handler.ServeHTTP(cw, r)
		if verbose {
			log.Printf("%s- %s %s> (%d) - agent:%s - %s",
				name, r.Method, r.RequestURI, cw.Status,
				r.Header.Get("User-Agent"), time.Since(t0))
		}
	})
}
