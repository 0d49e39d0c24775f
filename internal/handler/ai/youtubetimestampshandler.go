package ai

import (
	"errors"
	"net/http"
	"strings"

	"github.com/cookaihq/cookai/internal/gemini"
	"github.com/cookaihq/cookai/internal/httputil"
	"github.com/cookaihq/cookai/internal/svc"
	"github.com/cookaihq/cookai/internal/types"
)

// Extract a timestamped transcription from a YouTube video
func YouTubeTimestampsHandler(svcCtx *svc.ServiceContext) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req types.YouTubeTimestampsRequest
		if err := httputil.ParseJSON(r, &req); err != nil {
			httputil.Error(w, err)
			return
		}

		videoURL := strings.TrimSpace(req.URL)
		if videoURL == "" {
			videoURL = strings.TrimSpace(req.VideoURL)
		}
		if videoURL == "" {
			httputil.ErrorWithCode(w, http.StatusBadRequest, "Missing url or videoUrl in body")
			return
		}

		transcript, err := svcCtx.Gemini.YouTubeTimestamps(r.Context(), videoURL)
		if errors.Is(err, gemini.ErrInvalidVideoURL) {
			httputil.ErrorWithCode(w, http.StatusBadRequest, err.Error())
			return
		}
		if err != nil {
			httputil.InternalError(w, err.Error())
			return
		}
		httputil.OkJSON(w, transcript)
	}
}
