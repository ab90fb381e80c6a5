package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"

	"github.com/jhansigoday/bookbridge/handlers"
	"github.com/jhansigoday/bookbridge/models"
)

func requestRouter(st *fakeStore) *mux.Router {
	h := handlers.NewRequestHandler(st, nil)
	r := mux.NewRouter()
	r.HandleFunc("/requests", h.Create).Methods(http.MethodPost)
	r.HandleFunc("/requests/badge", h.Badge).Methods(http.MethodGet)
	r.HandleFunc("/requests/seen", h.Seen).Methods(http.MethodPost)
	r.HandleFunc("/requests/{id}/accept", h.Accept).Methods(http.MethodPost)
	r.HandleFunc("/requests/{id}/reject", h.Reject).Methods(http.MethodPost)
	r.HandleFunc("/requests/{id}", h.Delete).Methods(http.MethodDelete)
	return r
}

func seedRequest(st *fakeStore, status models.RequestStatus) *models.BookRequest {
	book := &models.Book{ID: "b1", Title: "Dune", DonorID: "donor", Status: models.BookAvailable}
	st.books[book.ID] = book
	req := &models.BookRequest{
		ID: "r1", BookID: "b1", RequesterID: "reader", DonorID: "donor",
		Status: status, Book: book,
	}
	st.requests[req.ID] = req
	return req
}

func TestCreateRequestOwnBook(t *testing.T) {
	st := newFakeStore()
	st.books["b1"] = &models.Book{ID: "b1", Title: "Dune", DonorID: "donor", Status: models.BookAvailable}
	router := requestRouter(st)

	body, _ := json.Marshal(models.CreateRequestPayload{BookID: "b1"})
	req := authed(httptest.NewRequest(http.MethodPost, "/requests", bytes.NewReader(body)), "donor")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("requesting own book: expected 400, got %d", w.Code)
	}
}

func TestCreateRequestUnavailableBook(t *testing.T) {
	st := newFakeStore()
	st.books["b1"] = &models.Book{ID: "b1", Title: "Dune", DonorID: "donor", Status: models.BookRequested}
	router := requestRouter(st)

	body, _ := json.Marshal(models.CreateRequestPayload{BookID: "b1"})
	req := authed(httptest.NewRequest(http.MethodPost, "/requests", bytes.NewReader(body)), "reader")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", w.Code)
	}
}

func TestCreateRequestNotifiesBothParties(t *testing.T) {
	st := newFakeStore()
	st.books["b1"] = &models.Book{ID: "b1", Title: "Dune", DonorID: "donor", Status: models.BookAvailable}
	router := requestRouter(st)

	body, _ := json.Marshal(models.CreateRequestPayload{BookID: "b1", Message: "please"})
	req := authed(httptest.NewRequest(http.MethodPost, "/requests", bytes.NewReader(body)), "reader")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	if st.notifCount("donor", models.NotifBookRequest) != 1 {
		t.Error("donor did not get a book_request notification")
	}
	if st.notifCount("reader", models.NotifRequestSent) != 1 {
		t.Error("requester did not get a request_sent notification")
	}
}

func TestAcceptRequestOnlyDonor(t *testing.T) {
	st := newFakeStore()
	seedRequest(st, models.RequestPending)
	router := requestRouter(st)

	req := authed(httptest.NewRequest(http.MethodPost, "/requests/r1/accept", nil), "reader")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusForbidden {
		t.Fatalf("requester accepting: expected 403, got %d", w.Code)
	}
}

func TestAcceptRequestTwice(t *testing.T) {
	st := newFakeStore()
	seedRequest(st, models.RequestPending)
	router := requestRouter(st)

	first := httptest.NewRecorder()
	router.ServeHTTP(first, authed(httptest.NewRequest(http.MethodPost, "/requests/r1/accept", nil), "donor"))
	if first.Code != http.StatusOK {
		t.Fatalf("first accept: expected 200, got %d: %s", first.Code, first.Body.String())
	}
	if st.books["b1"].Status != models.BookRequested {
		t.Fatalf("book should be requested after accept, got %s", st.books["b1"].Status)
	}

	second := httptest.NewRecorder()
	router.ServeHTTP(second, authed(httptest.NewRequest(http.MethodPost, "/requests/r1/accept", nil), "donor"))
	if second.Code != http.StatusConflict {
		t.Fatalf("second accept: expected 409, got %d", second.Code)
	}
}

func TestRejectDecidedRequest(t *testing.T) {
	st := newFakeStore()
	seedRequest(st, models.RequestAccepted)
	router := requestRouter(st)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, authed(httptest.NewRequest(http.MethodPost, "/requests/r1/reject", nil), "donor"))
	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", w.Code)
	}
}

func TestDeleteAcceptedRequestRefused(t *testing.T) {
	st := newFakeStore()
	seedRequest(st, models.RequestAccepted)
	router := requestRouter(st)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, authed(httptest.NewRequest(http.MethodDelete, "/requests/r1", nil), "reader"))
	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", w.Code)
	}
	if _, ok := st.requests["r1"]; !ok {
		t.Fatal("accepted request must survive a delete attempt")
	}
}

func TestDeleteRejectedRequest(t *testing.T) {
	st := newFakeStore()
	seedRequest(st, models.RequestRejected)
	router := requestRouter(st)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, authed(httptest.NewRequest(http.MethodDelete, "/requests/r1", nil), "reader"))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if _, ok := st.requests["r1"]; ok {
		t.Fatal("rejected request should be gone")
	}
}

func TestBadgeResetsAfterSeen(t *testing.T) {
	st := newFakeStore()
	seedRequest(st, models.RequestPending)
	router := requestRouter(st)

	badge := func() models.RequestBadge {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, authed(httptest.NewRequest(http.MethodGet, "/requests/badge", nil), "donor"))
		if w.Code != http.StatusOK {
			t.Fatalf("badge: expected 200, got %d", w.Code)
		}
		var b models.RequestBadge
		if err := json.NewDecoder(w.Body).Decode(&b); err != nil {
			t.Fatalf("decoding badge: %v", err)
		}
		return b
	}

	before := badge()
	if before.NewPending != 1 {
		t.Fatalf("expected 1 new pending before visit, got %d", before.NewPending)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, authed(httptest.NewRequest(http.MethodPost, "/requests/seen", nil), "donor"))
	if w.Code != http.StatusOK {
		t.Fatalf("seen: expected 200, got %d", w.Code)
	}

	after := badge()
	if after.NewPending != 0 {
		t.Fatalf("expected 0 new pending after visit, got %d", after.NewPending)
	}
	if after.Total != before.Total {
		t.Fatalf("total should not change on visit: %d != %d", after.Total, before.Total)
	}
}
