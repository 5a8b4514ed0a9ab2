package controller_test

import (
	"context"
	"encoding/json"
	"errors"
	"gig-marketplace-api/internal/controller"
	"gig-marketplace-api/internal/entity"
	"gig-marketplace-api/internal/repo/memdb"
	"gig-marketplace-api/internal/service"
	"gig-marketplace-api/pkg/token"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo"
	. "github.com/onsi/gomega"
)

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type client struct {
	handler *echo.Echo
	issuer  *token.Issuer
}

func newServices(issuer *token.Issuer) *service.Services {
	return service.NewServices(memdb.NewRepositories(memdb.NewStore()), service.Options{
		Policy:            entity.GigPolicy{MaxOpenGigsPerOwner: 10, UniqueTitlesPerOwner: true},
		Tokens:            issuer,
		DirectoryCacheTTL: time.Minute,
	})
}

func newClient(services *service.Services, issuer *token.Issuer, opts controller.Options) *client {
	handler := echo.New()
	controller.SetupRoutesHandlers(handler, services, opts)

	return &client{handler: handler, issuer: issuer}
}

func newTestClient() *client {
	issuer := token.NewIssuer("test-secret", time.Hour)

	return newClient(newServices(issuer), issuer, controller.Options{SessionTTL: time.Hour})
}

func (c *client) do(method, path, body string, sessionToken string) (int, envelope, *http.Response) {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if sessionToken != "" {
		req.AddCookie(&http.Cookie{Name: "token", Value: sessionToken})
	}

	rec := httptest.NewRecorder()
	c.handler.ServeHTTP(rec, req)

	var env envelope
	Expect(json.Unmarshal(rec.Body.Bytes(), &env)).To(Succeed(), rec.Body.String())

	return rec.Code, env, rec.Result()
}

func (c *client) register(name, email string) (string, string) {
	status, env, _ := c.do(http.MethodPost, "/api/auth/register",
		`{"name":"`+name+`","email":"`+email+`","password":"secret1"}`, "")
	Expect(status).To(Equal(http.StatusCreated))

	var session entity.AuthOutputModel
	Expect(json.Unmarshal(env.Data, &session)).To(Succeed())

	return session.User.Id, session.Token
}

func decode[T any](raw json.RawMessage) T {
	var v T
	Expect(json.Unmarshal(raw, &v)).To(Succeed())

	return v
}

const gigBody = `{"title":"Design a logo","description":"Need a modern logo for a small bakery","budget":300}`

func TestGigAndBidFlow(t *testing.T) {
	RegisterTestingT(t)

	c := newTestClient()
	_, ownerToken := c.register("Alice", "alice@example.com")
	bobId, bobToken := c.register("Bob", "bob@example.com")
	_, carolToken := c.register("Carol", "carol@example.com")

	var gig entity.GigOutputModel
	t.Run("should create a gig", func(t *testing.T) {
		status, env, _ := c.do(http.MethodPost, "/api/gigs", gigBody, ownerToken)
		Expect(status).To(Equal(http.StatusCreated))
		Expect(env.Success).To(BeTrue())
		gig = decode[entity.GigOutputModel](env.Data)
		Expect(gig.Status).To(Equal("open"))
		Expect(gig.Owner.Name).To(Equal("Alice"))
	})

	t.Run("should list and fetch the gig without a session", func(t *testing.T) {
		status, env, _ := c.do(http.MethodGet, "/api/gigs?search=LOGO", "", "")
		Expect(status).To(Equal(http.StatusOK))
		page := decode[entity.GigPageOutputModel](env.Data)
		Expect(page.Gigs).To(HaveLen(1))
		Expect(page.Pagination.TotalItems).To(Equal(1))

		status, env, _ = c.do(http.MethodGet, "/api/gigs/"+gig.Id, "", "")
		Expect(status).To(Equal(http.StatusOK))
		Expect(decode[entity.GigOutputModel](env.Data).Id).To(Equal(gig.Id))
	})

	t.Run("should list the owner's gigs", func(t *testing.T) {
		status, env, _ := c.do(http.MethodGet, "/api/gigs/my", "", ownerToken)
		Expect(status).To(Equal(http.StatusOK))
		Expect(decode[[]entity.GigOutputModel](env.Data)).To(HaveLen(1))
	})

	var bobBid, carolBid entity.BidOutputModel
	t.Run("should accept bids and refuse duplicates", func(t *testing.T) {
		bidBody := `{"gigId":"` + gig.Id + `","message":"I can deliver in two days","price":150}`

		status, env, _ := c.do(http.MethodPost, "/api/bids", bidBody, bobToken)
		Expect(status).To(Equal(http.StatusCreated))
		bobBid = decode[entity.BidOutputModel](env.Data)
		Expect(bobBid.FreelancerId).To(Equal(bobId))

		status, env, _ = c.do(http.MethodPost, "/api/bids", bidBody, bobToken)
		Expect(status).To(Equal(http.StatusConflict))
		Expect(env).To(Equal(envelope{Message: "You have already submitted a bid for this gig"}))

		status, env, _ = c.do(http.MethodPost, "/api/bids", bidBody, ownerToken)
		Expect(status).To(Equal(http.StatusForbidden))
		Expect(env.Message).To(Equal("You cannot bid on your own gig"))

		status, env, _ = c.do(http.MethodPost, "/api/bids", bidBody, carolToken)
		Expect(status).To(Equal(http.StatusCreated))
		carolBid = decode[entity.BidOutputModel](env.Data)
	})

	t.Run("should show bids to the owner only", func(t *testing.T) {
		status, env, _ := c.do(http.MethodGet, "/api/bids/"+gig.Id, "", ownerToken)
		Expect(status).To(Equal(http.StatusOK))
		bids := decode[[]entity.BidOutputModel](env.Data)
		Expect(bids).To(HaveLen(2))
		Expect(bids[0].Freelancer.Name).To(Equal("Carol"))

		status, env, _ = c.do(http.MethodGet, "/api/bids/"+gig.Id, "", bobToken)
		Expect(status).To(Equal(http.StatusForbidden))
		Expect(env.Message).To(Equal("Only the gig owner can view bids"))
	})

	t.Run("should hire one bid and reject the other", func(t *testing.T) {
		status, env, _ := c.do(http.MethodPatch, "/api/bids/"+bobBid.Id+"/hire", "", carolToken)
		Expect(status).To(Equal(http.StatusForbidden))
		Expect(env.Message).To(Equal("Only the gig owner can hire freelancers"))

		status, env, _ = c.do(http.MethodPatch, "/api/bids/"+bobBid.Id+"/hire", "", ownerToken)
		Expect(status).To(Equal(http.StatusOK))
		Expect(env.Success).To(BeTrue())
		Expect(env.Data).To(MatchJSON(`{
			"gig": {"id": "` + gig.Id + `", "title": "Design a logo", "status": "assigned"},
			"hiredBid": {"id": "` + bobBid.Id + `", "freelancerId": "` + bobId + `", "price": 150, "status": "hired"},
			"rejectedCount": 1
		}`))

		status, env, _ = c.do(http.MethodPatch, "/api/bids/"+carolBid.Id+"/hire", "", ownerToken)
		Expect(status).To(Equal(http.StatusBadRequest))
		Expect(env.Message).To(Equal("This gig has already been assigned"))
	})

	t.Run("should show the freelancer the outcome of their bids", func(t *testing.T) {
		status, env, _ := c.do(http.MethodGet, "/api/bids/my", "", carolToken)
		Expect(status).To(Equal(http.StatusOK))
		bids := decode[[]entity.BidOutputModel](env.Data)
		Expect(bids).To(HaveLen(1))
		Expect(bids[0].Status).To(Equal("rejected"))
		Expect(bids[0].Gig.Status).To(Equal("assigned"))
	})

	t.Run("should refuse to delete the assigned gig", func(t *testing.T) {
		status, env, _ := c.do(http.MethodDelete, "/api/gigs/"+gig.Id, "", ownerToken)
		Expect(status).To(Equal(http.StatusBadRequest))
		Expect(env.Message).To(Equal("Cannot delete an assigned gig"))
	})

	t.Run("should delete an open gig for its owner", func(t *testing.T) {
		status, env, _ := c.do(http.MethodPost, "/api/gigs",
			`{"title":"Write product copy","description":"Copy for ten product pages","budget":100}`, ownerToken)
		Expect(status).To(Equal(http.StatusCreated))
		open := decode[entity.GigOutputModel](env.Data)

		status, env, _ = c.do(http.MethodDelete, "/api/gigs/"+open.Id, "", bobToken)
		Expect(status).To(Equal(http.StatusForbidden))
		Expect(env.Message).To(Equal("You can only delete your own gigs"))

		status, _, _ = c.do(http.MethodDelete, "/api/gigs/"+open.Id, "", ownerToken)
		Expect(status).To(Equal(http.StatusOK))

		status, env, _ = c.do(http.MethodGet, "/api/gigs/"+open.Id, "", "")
		Expect(status).To(Equal(http.StatusNotFound))
		Expect(env.Message).To(Equal("Gig not found"))
	})
}

func TestValidation(t *testing.T) {
	RegisterTestingT(t)

	c := newTestClient()
	_, sessionToken := c.register("Alice", "alice@example.com")

	t.Run("should reject a gig with a short title", func(t *testing.T) {
		status, env, _ := c.do(http.MethodPost, "/api/gigs",
			`{"title":"Logo","description":"Need a modern logo for a small bakery","budget":300}`, sessionToken)
		Expect(status).To(Equal(http.StatusBadRequest))
		Expect(env.Success).To(BeFalse())
		Expect(env.Message).To(ContainSubstring("'title': length should be greater or equal than 5"))
	})

	t.Run("should reject a non-positive budget", func(t *testing.T) {
		status, env, _ := c.do(http.MethodPost, "/api/gigs",
			`{"title":"Design a logo","description":"Need a modern logo for a small bakery","budget":-5}`, sessionToken)
		Expect(status).To(Equal(http.StatusBadRequest))
		Expect(env.Message).To(ContainSubstring("'budget'"))
	})

	t.Run("should reject malformed JSON", func(t *testing.T) {
		status, env, _ := c.do(http.MethodPost, "/api/gigs", `{"title":`, sessionToken)
		Expect(status).To(Equal(http.StatusBadRequest))
		Expect(env.Message).To(Equal("Input data is not formed correctly"))
	})

	t.Run("should reject a page size above fifty", func(t *testing.T) {
		status, env, _ := c.do(http.MethodGet, "/api/gigs?limit=51", "", "")
		Expect(status).To(Equal(http.StatusBadRequest))
		Expect(env.Message).To(ContainSubstring("'limit'"))
	})

	t.Run("should reject an unknown status filter", func(t *testing.T) {
		status, _, _ := c.do(http.MethodGet, "/api/gigs?status=closed", "", "")
		Expect(status).To(Equal(http.StatusBadRequest))
	})

	t.Run("should reject a bad registration", func(t *testing.T) {
		status, env, _ := c.do(http.MethodPost, "/api/auth/register",
			`{"name":"A","email":"not-an-email","password":"123"}`, "")
		Expect(status).To(Equal(http.StatusBadRequest))
		Expect(env.Message).To(ContainSubstring("'email': should be a valid email address"))
	})
}

func TestAuthentication(t *testing.T) {
	RegisterTestingT(t)

	issuer := token.NewIssuer("test-secret", time.Hour)
	c := newClient(newServices(issuer), issuer, controller.Options{SessionTTL: time.Hour})

	t.Run("should demand a token", func(t *testing.T) {
		status, env, _ := c.do(http.MethodGet, "/api/gigs/my", "", "")
		Expect(status).To(Equal(http.StatusUnauthorized))
		Expect(env).To(Equal(envelope{Message: "Access denied. No token provided."}))
	})

	t.Run("should reject a forged token", func(t *testing.T) {
		status, env, _ := c.do(http.MethodGet, "/api/gigs/my", "", "not.a.token")
		Expect(status).To(Equal(http.StatusUnauthorized))
		Expect(env.Message).To(Equal("Invalid token"))
	})

	t.Run("should reject an expired token", func(t *testing.T) {
		expired, _, err := token.NewIssuer("test-secret", -time.Minute).Issue("someone")
		Expect(err).To(BeNil())

		status, env, _ := c.do(http.MethodGet, "/api/gigs/my", "", expired)
		Expect(status).To(Equal(http.StatusUnauthorized))
		Expect(env.Message).To(Equal("Token expired"))
	})

	t.Run("should set and clear an http-only session cookie", func(t *testing.T) {
		status, _, res := c.do(http.MethodPost, "/api/auth/register",
			`{"name":"Alice","email":"alice@example.com","password":"secret1"}`, "")
		Expect(status).To(Equal(http.StatusCreated))
		cookies := res.Cookies()
		Expect(cookies).To(HaveLen(1))
		Expect(cookies[0].Name).To(Equal("token"))
		Expect(cookies[0].HttpOnly).To(BeTrue())

		status, env, _ := c.do(http.MethodGet, "/api/auth/me", "", cookies[0].Value)
		Expect(status).To(Equal(http.StatusOK))
		Expect(decode[entity.UserSummaryOutput](env.Data).Email).To(Equal("alice@example.com"))

		status, _, res = c.do(http.MethodPost, "/api/auth/logout", "", "")
		Expect(status).To(Equal(http.StatusOK))
		Expect(res.Cookies()[0].MaxAge).To(BeNumerically("<", 0))
	})

	t.Run("should accept a bearer token", func(t *testing.T) {
		status, env, _ := c.do(http.MethodPost, "/api/auth/login",
			`{"email":"alice@example.com","password":"secret1"}`, "")
		Expect(status).To(Equal(http.StatusOK))
		session := decode[entity.AuthOutputModel](env.Data)

		req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+session.Token)
		rec := httptest.NewRecorder()
		c.handler.ServeHTTP(rec, req)
		Expect(rec.Code).To(Equal(http.StatusOK))
	})

	t.Run("should refuse a wrong password", func(t *testing.T) {
		status, env, _ := c.do(http.MethodPost, "/api/auth/login",
			`{"email":"alice@example.com","password":"wrong-one"}`, "")
		Expect(status).To(Equal(http.StatusUnauthorized))
		Expect(env.Message).To(Equal("Invalid email or password"))
	})
}

type failingGigService struct {
	service.Gig
	err error
}

func (s *failingGigService) GetGigs(context.Context, *entity.GigFilter, *entity.PaginationInput) (*entity.GigPageOutputModel, error) {
	return nil, s.err
}

type failingDiagnostics struct{}

func (failingDiagnostics) Ping(context.Context) error {
	return errors.New("dial tcp 10.0.0.5:5432: connection refused")
}

func TestInfrastructureErrors(t *testing.T) {
	RegisterTestingT(t)

	issuer := token.NewIssuer("test-secret", time.Hour)
	services := newServices(issuer)

	t.Run("should hide store errors behind a generic message", func(t *testing.T) {
		services.Gig = &failingGigService{Gig: services.Gig, err: errors.New(`pq: relation "gig" does not exist`)}
		c := newClient(services, issuer, controller.Options{})

		status, env, _ := c.do(http.MethodGet, "/api/gigs", "", "")
		Expect(status).To(Equal(http.StatusInternalServerError))
		Expect(env).To(Equal(envelope{Message: "Internal server error"}))
	})

	t.Run("should ask the client to retry when the store stays busy", func(t *testing.T) {
		services.Gig = &failingGigService{Gig: services.Gig, err: service.ErrTemporarilyUnavailable}
		c := newClient(services, issuer, controller.Options{})

		status, env, _ := c.do(http.MethodGet, "/api/gigs", "", "")
		Expect(status).To(Equal(http.StatusInternalServerError))
		Expect(env.Message).To(Equal("Service temporarily unavailable, please retry"))
	})

	t.Run("should report a failing ping", func(t *testing.T) {
		services.Diagnostics = failingDiagnostics{}
		c := newClient(services, issuer, controller.Options{})

		status, env, _ := c.do(http.MethodGet, "/api/ping", "", "")
		Expect(status).To(Equal(http.StatusInternalServerError))
		Expect(env.Message).To(Equal("Internal server error"))
	})

	t.Run("should answer unknown routes with the envelope", func(t *testing.T) {
		c := newClient(services, issuer, controller.Options{})

		status, env, _ := c.do(http.MethodGet, "/api/nothing-here", "", "")
		Expect(status).To(Equal(http.StatusNotFound))
		Expect(env.Success).To(BeFalse())
	})
}

func TestRateLimit(t *testing.T) {
	RegisterTestingT(t)

	issuer := token.NewIssuer("test-secret", time.Hour)
	c := newClient(newServices(issuer), issuer, controller.Options{RequestsPerSecond: 0.001, Burst: 2})

	for i := 0; i < 2; i++ {
		status, _, _ := c.do(http.MethodGet, "/api/ping", "", "")
		Expect(status).To(Equal(http.StatusOK))
	}

	status, env, _ := c.do(http.MethodGet, "/api/ping", "", "")
	Expect(status).To(Equal(http.StatusTooManyRequests))
	Expect(env.Success).To(BeFalse())
}
