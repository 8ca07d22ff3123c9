package server

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/bankledger/account-ledger-service/internal/ledger"
	"github.com/bankledger/account-ledger-service/internal/models"
	"github.com/bankledger/account-ledger-service/internal/views"
)

// Handler routes one parsed request to the matching operation. Routing is
// by path prefix:
//
//	/             GET   home page
//	/user         POST  login, redirect to /details or back to /
//	/details      GET   account view (query id)
//	/deposit      GET   form, POST mutation
//	/withdraw     GET   form, POST mutation
//	/transactions GET   ledger view (query id)
//
// Anything else is not found. Errors during processing surface as the
// generic server error with no internal detail.
type Handler struct {
	accounts  *ledger.Accounts
	processor *ledger.Processor
	logger    *slog.Logger
}

func NewHandler(accounts *ledger.Accounts, processor *ledger.Processor, logger *slog.Logger) *Handler {
	return &Handler{accounts: accounts, processor: processor, logger: logger}
}

func (h *Handler) route(ctx context.Context, req *Request) response {
	switch {
	case req.Path == "/":
		if req.Method == "GET" {
			return ok(views.Home())
		}
		return notFound()

	case strings.HasPrefix(req.Path, "/user"):
		if req.Method == "POST" {
			return h.login(ctx, req)
		}
		return notFound()

	case strings.HasPrefix(req.Path, "/details"):
		if req.Method == "GET" {
			return h.details(ctx, req)
		}
		return notFound()

	case strings.HasPrefix(req.Path, "/deposit"):
		return h.transaction(ctx, req, models.KindDeposit)

	case strings.HasPrefix(req.Path, "/withdraw"):
		return h.transaction(ctx, req, models.KindWithdraw)

	case strings.HasPrefix(req.Path, "/transactions"):
		if req.Method == "GET" {
			return h.transactionsPage(ctx, req)
		}
		return notFound()

	default:
		return notFound()
	}
}

// login resolves the submitted token. Unknown and malformed tokens both
// land back on the home page; nothing reveals whether an account exists.
func (h *Handler) login(ctx context.Context, req *Request) response {
	token := req.FormParam("token")
	id, err := h.accounts.Resolve(ctx, token)
	if err != nil {
		return h.redirectTo("/")
	}
	return h.redirectTo(fmt.Sprintf("/details?id=%s", id))
}

func (h *Handler) details(ctx context.Context, req *Request) response {
	acct, err := h.accounts.Get(ctx, req.QueryParam("id"))
	if err != nil {
		h.logger.Error("details lookup failed", "err", err)
		return serverError()
	}
	return ok(views.Details(acct))
}

// transaction serves the form on GET and applies the mutation on POST.
// A failed mutation, whatever the cause, redirects back to the form.
func (h *Handler) transaction(ctx context.Context, req *Request, kind models.Kind) response {
	formPath := fmt.Sprintf("/%s?id=%s", kind, req.QueryParam("id"))

	if req.Method != "POST" {
		if req.Method == "GET" {
			return ok(views.TransactionForm(kind, req.QueryParam("id")))
		}
		return notFound()
	}

	id := req.QueryParam("id")
	if _, err := h.processor.Apply(ctx, id, req.FormParam("amount"), kind); err != nil {
		h.logger.Warn("transaction failed", "account_id", id, "kind", kind, "err", err)
		return h.redirectTo(formPath)
	}
	return h.redirectTo(fmt.Sprintf("/details?id=%s", id))
}

func (h *Handler) transactionsPage(ctx context.Context, req *Request) response {
	id := req.QueryParam("id")
	acct, err := h.accounts.Get(ctx, id)
	if err != nil {
		h.logger.Error("transactions lookup failed", "err", err)
		return serverError()
	}
	entries, err := h.processor.Entries(ctx, id)
	if err != nil {
		h.logger.Error("ledger read failed", "err", err)
		return serverError()
	}
	return ok(views.Transactions(acct, entries))
}

func (h *Handler) redirectTo(location string) response {
	h.logger.Info("redirecting", "location", location)
	return redirect(location)
}
