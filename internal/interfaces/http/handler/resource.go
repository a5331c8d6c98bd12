package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// The helpers below serve the per-user record collections (banking
// registers, treasury entries) whose handlers differ only in the service
// method they call.

func createFor[Req, Resp any](h *BaseHandler, c *gin.Context, create func(context.Context, uuid.UUID, Req) (*Resp, error)) {
	userID, ok := h.currentUser(c)
	if !ok {
		return
	}
	var req Req
	if !h.bindJSON(c, &req) {
		return
	}

	resp, err := create(c.Request.Context(), userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

func listFor[Resp any](h *BaseHandler, c *gin.Context, list func(context.Context, uuid.UUID) ([]Resp, error)) {
	userID, ok := h.currentUser(c)
	if !ok {
		return
	}

	items, err := list(c.Request.Context(), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	List(h, c, items)
}

func getFor[Resp any](h *BaseHandler, c *gin.Context, get func(context.Context, uuid.UUID, uuid.UUID) (*Resp, error)) {
	userID, ok := h.currentUser(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	resp, err := get(c.Request.Context(), userID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

func updateFor[Req, Resp any](h *BaseHandler, c *gin.Context, update func(context.Context, uuid.UUID, uuid.UUID, Req) (*Resp, error)) {
	userID, ok := h.currentUser(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	var req Req
	if !h.bindJSON(c, &req) {
		return
	}

	resp, err := update(c.Request.Context(), userID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

func deleteFor(h *BaseHandler, c *gin.Context, del func(context.Context, uuid.UUID, uuid.UUID) error) {
	userID, ok := h.currentUser(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	if err := del(c.Request.Context(), userID, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
