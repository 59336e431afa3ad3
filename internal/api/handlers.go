package api

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"max.ks1230/kinder-converter/internal/entity/currency"
	"max.ks1230/kinder-converter/internal/model/customerr"
	"max.ks1230/kinder-converter/internal/model/rates"
	"max.ks1230/kinder-converter/internal/model/reports"
	"max.ks1230/kinder-converter/internal/model/widget"
)

type ratesResponse struct {
	Rates  currency.Table `json:"rates"`
	Status rates.Status   `json:"status"`
	Label  string         `json:"label"`
	Error  string         `json:"error,omitempty"`
}

type sessionResponse struct {
	ID      string                   `json:"id"`
	Fields  map[currency.Code]string `json:"fields"`
	Flashed []currency.Code          `json:"flashed,omitempty"`
	Error   string                   `json:"error,omitempty"`
}

type inputRequest struct {
	Currency string `json:"currency"`
	Value    string `json:"value"`
}

func (s *Server) getRates(c *fiber.Ctx) error {
	status := s.puller.Status()
	return c.JSON(ratesResponse{
		Rates:  s.rates.Rates(),
		Status: status,
		Label:  status.Label(),
	})
}

// refreshRates always answers with the table in use; a failed fetch is reported
// with 502 alongside the fallback that was applied.
func (s *Server) refreshRates(c *fiber.Ctx) error {
	status, err := s.puller.Refresh(c.UserContext())
	resp := ratesResponse{
		Rates:  s.rates.Rates(),
		Status: status,
		Label:  status.Label(),
	}
	if err != nil {
		resp.Error = err.Error()
		return c.Status(fiber.StatusBadGateway).JSON(resp)
	}
	return c.JSON(resp)
}

func (s *Server) ratesHistory(c *fiber.Ctx) error {
	if s.reports == nil {
		return fiber.NewError(fiber.StatusNotFound, "rates history is not kept")
	}

	report, err := s.reports.GenerateReport(c.UserContext(), c.Query("period"))
	if errors.Is(err, reports.ErrUnknownPeriod) {
		return fiber.NewError(fiber.StatusBadRequest,
			"period must be one of: "+strings.Join(reports.ReportPeriods(), ", "))
	}
	if err != nil {
		return err
	}
	return c.JSON(report)
}

func (s *Server) createSession(c *fiber.Ctx) error {
	session := s.sessions.Create()
	return c.Status(fiber.StatusCreated).JSON(sessionResponse{
		ID:     session.ID(),
		Fields: session.Fields(),
	})
}

func (s *Server) getSession(c *fiber.Ctx) error {
	session, err := s.session(c)
	if err != nil {
		return err
	}
	return c.JSON(sessionResponse{ID: session.ID(), Fields: session.Fields()})
}

func (s *Server) input(c *fiber.Ctx) error {
	session, err := s.session(c)
	if err != nil {
		return err
	}

	var req inputRequest
	if err = c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "malformed body")
	}
	code := currency.Code(strings.ToUpper(strings.TrimSpace(req.Currency)))
	if !currency.IsKnown(code) {
		return fiber.NewError(fiber.StatusBadRequest, "unknown currency: "+req.Currency)
	}

	update, err := session.HandleInput(c.UserContext(), code, req.Value)
	return respondUpdate(c, session, update, err)
}

func (s *Server) lucky(c *fiber.Ctx) error {
	session, err := s.session(c)
	if err != nil {
		return err
	}
	update, err := session.Lucky(c.UserContext())
	return respondUpdate(c, session, update, err)
}

func (s *Server) restore(c *fiber.Ctx) error {
	session, err := s.session(c)
	if err != nil {
		return err
	}
	update, err := session.Restore(c.UserContext())
	return respondUpdate(c, session, update, err)
}

func (s *Server) session(c *fiber.Ctx) (*widget.Session, error) {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "invalid session id")
	}
	session, ok := s.sessions.Lookup(id.String())
	if !ok {
		return nil, fiber.NewError(fiber.StatusNotFound, "unknown session")
	}
	return session, nil
}

// respondUpdate reports conversion failures with 422 while still sending the fields,
// which are always left in a consistent state.
func respondUpdate(c *fiber.Ctx, session *widget.Session, update widget.Update, err error) error {
	resp := sessionResponse{
		ID:      session.ID(),
		Fields:  update.Fields,
		Flashed: update.Flashed,
	}
	if err == nil {
		return c.JSON(resp)
	}

	switch {
	case customerr.IsUnknownCurrency(err), customerr.IsInvalidAmount(err):
		resp.Error = err.Error()
		if resp.Fields == nil {
			resp.Fields = session.Fields()
		}
		return c.Status(fiber.StatusUnprocessableEntity).JSON(resp)
	}
	return err
}
