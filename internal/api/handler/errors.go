package handler

import (
	"net/http"

	"poke_league/internal/common"

	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"
)

// respondWithError writes err to the client and logs anything that maps to a 5xx.
func respondWithError(w http.ResponseWriter, r *http.Request, logger *logrus.Logger, err error) {
	if common.HTTPStatusFromError(err) >= http.StatusInternalServerError {
		logger.WithFields(logrus.Fields{
			"request_id": chiMiddleware.GetReqID(r.Context()),
			"method":     r.Method,
			"path":       r.URL.Path,
		}).WithError(err).Error("request failed")
	}
	common.RespondWithDomainError(w, err)
}
