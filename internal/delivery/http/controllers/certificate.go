package controllers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/anooppassi66/lms-development/internal/service/certificate"
	"github.com/anooppassi66/lms-development/pkg/logger"
)

type CertificateService interface {
	ListByUser(ctx context.Context, userID uuid.UUID) ([]certificate.CertificateView, error)
	ListAll(ctx context.Context) ([]certificate.CertificateView, error)
}

type CertificateHandler struct {
	log     logger.Log
	service CertificateService
}

func NewCertificateHandler(l logger.Log, s CertificateService) *CertificateHandler {
	return &CertificateHandler{log: l, service: s}
}

func (h *CertificateHandler) MyCertificates(c *gin.Context) {
	certs, err := h.service.ListByUser(c.Request.Context(), clientID(c))
	if err != nil {
		respondError(c, h.log, "error listing certificates", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"certificates": certs})
}

func (h *CertificateHandler) ListAll(c *gin.Context) {
	certs, err := h.service.ListAll(c.Request.Context())
	if err != nil {
		respondError(c, h.log, "error listing certificates", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"certificates": certs})
}
