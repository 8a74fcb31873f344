package handler

import (
	"context"
	"net/http"
	"strconv"

	"library-catalog/internal/model"
	"library-catalog/internal/validation"
)

type authorService interface {
	List(ctx context.Context) ([]model.Author, error)
	Get(ctx context.Context, id int) (model.Author, error)
	Create(ctx context.Context, patch model.AuthorPatch) (model.Author, error)
	Update(ctx context.Context, id int, patch model.AuthorPatch) (model.Author, model.Author, error)
	Delete(ctx context.Context, id int) error
}

type publisherService interface {
	List(ctx context.Context) ([]model.Publisher, error)
	Get(ctx context.Context, id int) (model.Publisher, error)
	Create(ctx context.Context, patch model.PublisherPatch) (model.Publisher, error)
	Update(ctx context.Context, id int, patch model.PublisherPatch) (model.Publisher, model.Publisher, error)
	Delete(ctx context.Context, id int) error
}

type bookService interface {
	List(ctx context.Context) ([]model.Book, error)
	Get(ctx context.Context, id int) (model.Book, error)
	Create(ctx context.Context, patch model.BookPatch) (model.Book, error)
	Update(ctx context.Context, id int, patch model.BookPatch) (model.Book, model.Book, error)
	Delete(ctx context.Context, id int) error
}

type AuthorHandler struct {
	service   authorService
	validator bodyValidator
	audit     auditLogger
}

func NewAuthorHandler(service authorService, validator bodyValidator, audit auditLogger) *AuthorHandler {
	return &AuthorHandler{service: service, validator: validator, audit: audit}
}

func (h *AuthorHandler) List(w http.ResponseWriter, r *http.Request) {
	authors, err := h.service.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, listData(authors), nil)
}

func (h *AuthorHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathInt(r, "author_id", "author")
	if err != nil {
		writeError(w, err)
		return
	}

	author, err := h.service.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, author, nil)
}

func (h *AuthorHandler) Create(w http.ResponseWriter, r *http.Request) {
	var patch model.AuthorPatch
	if err := decodeBody(w, r, h.validator, validation.AuthorCreate, &patch); err != nil {
		writeError(w, err)
		return
	}

	author, err := h.service.Create(r.Context(), patch)
	recordAudit(h.audit, r, actionAuthorCreate, "authors/"+strconv.Itoa(author.ID), nil, author, err)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusCreated, author, nil)
}

func (h *AuthorHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathInt(r, "author_id", "author")
	if err != nil {
		writeError(w, err)
		return
	}

	var patch model.AuthorPatch
	if err := decodeBody(w, r, h.validator, validation.AuthorUpdate, &patch); err != nil {
		writeError(w, err)
		return
	}

	before, after, err := h.service.Update(r.Context(), id, patch)
	recordAudit(h.audit, r, actionAuthorUpdate, "authors/"+strconv.Itoa(id), before, after, err)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, after, nil)
}

func (h *AuthorHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathInt(r, "author_id", "author")
	if err != nil {
		writeError(w, err)
		return
	}

	err = h.service.Delete(r.Context(), id)
	recordAudit(h.audit, r, actionAuthorDelete, "authors/"+strconv.Itoa(id), nil, nil, err)
	if err != nil {
		writeError(w, err)
		return
	}

	writeNoContent(w)
}

type PublisherHandler struct {
	service   publisherService
	validator bodyValidator
	audit     auditLogger
}

func NewPublisherHandler(service publisherService, validator bodyValidator, audit auditLogger) *PublisherHandler {
	return &PublisherHandler{service: service, validator: validator, audit: audit}
}

func (h *PublisherHandler) List(w http.ResponseWriter, r *http.Request) {
	publishers, err := h.service.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, listData(publishers), nil)
}

func (h *PublisherHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathInt(r, "publisher_id", "publisher")
	if err != nil {
		writeError(w, err)
		return
	}

	publisher, err := h.service.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, publisher, nil)
}

func (h *PublisherHandler) Create(w http.ResponseWriter, r *http.Request) {
	var patch model.PublisherPatch
	if err := decodeBody(w, r, h.validator, validation.PublisherCreate, &patch); err != nil {
		writeError(w, err)
		return
	}

	publisher, err := h.service.Create(r.Context(), patch)
	recordAudit(h.audit, r, actionPubCreate, "publishers/"+strconv.Itoa(publisher.ID), nil, publisher, err)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusCreated, publisher, nil)
}

func (h *PublisherHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathInt(r, "publisher_id", "publisher")
	if err != nil {
		writeError(w, err)
		return
	}

	var patch model.PublisherPatch
	if err := decodeBody(w, r, h.validator, validation.PublisherUpdate, &patch); err != nil {
		writeError(w, err)
		return
	}

	before, after, err := h.service.Update(r.Context(), id, patch)
	recordAudit(h.audit, r, actionPubUpdate, "publishers/"+strconv.Itoa(id), before, after, err)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, after, nil)
}

func (h *PublisherHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathInt(r, "publisher_id", "publisher")
	if err != nil {
		writeError(w, err)
		return
	}

	err = h.service.Delete(r.Context(), id)
	recordAudit(h.audit, r, actionPubDelete, "publishers/"+strconv.Itoa(id), nil, nil, err)
	if err != nil {
		writeError(w, err)
		return
	}

	writeNoContent(w)
}

type BookHandler struct {
	service   bookService
	validator bodyValidator
	audit     auditLogger
}

func NewBookHandler(service bookService, validator bodyValidator, audit auditLogger) *BookHandler {
	return &BookHandler{service: service, validator: validator, audit: audit}
}

func (h *BookHandler) List(w http.ResponseWriter, r *http.Request) {
	books, err := h.service.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, listData(books), nil)
}

func (h *BookHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathInt(r, "book_id", "book")
	if err != nil {
		writeError(w, err)
		return
	}

	book, err := h.service.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, book, nil)
}

func (h *BookHandler) Create(w http.ResponseWriter, r *http.Request) {
	var patch model.BookPatch
	if err := decodeBody(w, r, h.validator, validation.BookCreate, &patch); err != nil {
		writeError(w, err)
		return
	}

	book, err := h.service.Create(r.Context(), patch)
	recordAudit(h.audit, r, actionBookCreate, "books/"+strconv.Itoa(book.ID), nil, book, err)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusCreated, book, nil)
}

func (h *BookHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathInt(r, "book_id", "book")
	if err != nil {
		writeError(w, err)
		return
	}

	var patch model.BookPatch
	if err := decodeBody(w, r, h.validator, validation.BookUpdate, &patch); err != nil {
		writeError(w, err)
		return
	}

	before, after, err := h.service.Update(r.Context(), id, patch)
	recordAudit(h.audit, r, actionBookUpdate, "books/"+strconv.Itoa(id), before, after, err)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, after, nil)
}

func (h *BookHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathInt(r, "book_id", "book")
	if err != nil {
		writeError(w, err)
		return
	}

	err = h.service.Delete(r.Context(), id)
	recordAudit(h.audit, r, actionBookDelete, "books/"+strconv.Itoa(id), nil, nil, err)
	if err != nil {
		writeError(w, err)
		return
	}

	writeNoContent(w)
}
