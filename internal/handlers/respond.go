package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/agenda-api/internal/caller"
	"github.com/BruksfildServices01/agenda-api/internal/httperr"
	"github.com/BruksfildServices01/agenda-api/internal/middleware"
)

// respondError writes err and logs anything that is not a business error.
func respondError(c *gin.Context, logger *zap.Logger, err error) {
	if httperr.FromError(c, err) {
		return
	}
	_ = c.Error(err)
	logger.Error("request failed",
		zap.String("path", c.FullPath()),
		zap.String("request_id", c.GetString(middleware.ContextRequestID)),
		zap.Error(err),
	)
}

func invalidRequest(c *gin.Context, err error) {
	httperr.BadRequest(c, "invalid_request", err.Error())
}

// paramID reads a positive integer path parameter.
func paramID(c *gin.Context, name string) (uint, bool) {
	v, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || v == 0 {
		httperr.BadRequest(c, "invalid_"+name, "Invalid "+name)
		return 0, false
	}
	return uint(v), true
}

// queryID reads an optional positive integer query parameter; absent is 0.
func queryID(c *gin.Context, name string) (uint, bool) {
	raw := c.Query(name)
	if raw == "" {
		return 0, true
	}
	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_"+name, "Invalid "+name)
		return 0, false
	}
	return uint(v), true
}

// requireOwner answers 403 unless the caller owns a business.
func requireOwner(c *gin.Context) (caller.Caller, bool) {
	who := middleware.CallerFrom(c)
	if !who.IsOwnerOf(who.BusinessID) {
		httperr.Forbidden(c, "forbidden", "You do not have access to this resource.")
		return who, false
	}
	return who, true
}

// requireBusiness answers 403 unless the caller works at a business.
func requireBusiness(c *gin.Context) (caller.Caller, bool) {
	who := middleware.CallerFrom(c)
	if !who.CanViewBusiness(who.BusinessID) {
		httperr.Forbidden(c, "forbidden", "You do not have access to this resource.")
		return who, false
	}
	return who, true
}
