// Package stubapi is an in-memory implementation of the backend REST
// contract, used for local development and end-to-end tests. It is not the
// production server; it only has to honor the wire shapes the client
// depends on.
package stubapi

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"lakshya/internal/domain/milestone"
	"lakshya/internal/domain/transaction"
)

const tokenTTL = 24 * time.Hour

// serverTimeLayout matches the zone-less timestamps the real backend emits.
const serverTimeLayout = "2006-01-02T15:04:05"

type account struct {
	ID       string
	Name     string
	Phone    string
	Password string
}

// Server holds the in-memory state behind the stub endpoints.
type Server struct {
	engine    *gin.Engine
	jwtSecret []byte

	mu           sync.Mutex
	accounts     map[string]*account                  // by phone
	transactions map[string][]transaction.Transaction // by phone
	milestones   map[string][]milestone.Milestone     // by phone
}

// New builds the stub server with the given JWT signing secret.
func New(jwtSecret string) *Server {
	gin.SetMode(gin.ReleaseMode)

	s := &Server{
		jwtSecret:    []byte(jwtSecret),
		accounts:     make(map[string]*account),
		transactions: make(map[string][]transaction.Transaction),
		milestones:   make(map[string][]milestone.Milestone),
	}

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type"},
		AllowCredentials: false,
	}))

	engine.POST("/api/auth/register", s.handleRegister)
	engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	authed := engine.Group("/", s.authenticate)
	authed.GET("/api/auth/me", s.handleMe)
	authed.GET("/api/transactions", s.handleListTransactions)
	authed.POST("/api/transactions", s.handleCreateTransaction)
	authed.DELETE("/api/transactions/:id", s.handleDeleteTransaction)
	authed.GET("/api/milestone", s.handleListMilestones)
	authed.POST("/api/milestone", s.handleCreateMilestone)

	s.engine = engine
	return s
}

// Handler exposes the server as an http.Handler for httptest or ListenAndServe.
func (s *Server) Handler() http.Handler {
	return s.engine
}

type registerRequest struct {
	Phone    string `json:"phone"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

// handleRegister registers a new account or logs into an existing one,
// mirroring the real endpoint's register-or-login behavior. The token goes
// out in the "jwt" field.
func (s *Server) handleRegister(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid request body"})
		return
	}
	if req.Phone == "" || req.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "phone and password are required"})
		return
	}

	s.mu.Lock()
	acc, ok := s.accounts[req.Phone]
	if ok {
		if acc.Password != req.Password {
			s.mu.Unlock()
			c.JSON(http.StatusUnauthorized, gin.H{"message": "invalid credentials"})
			return
		}
	} else {
		acc = &account{
			ID:       uuid.NewString(),
			Name:     req.Name,
			Phone:    req.Phone,
			Password: req.Password,
		}
		s.accounts[req.Phone] = acc
	}
	s.mu.Unlock()

	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  acc.Phone,
		"name": acc.Name,
		"iat":  now.Unix(),
		"exp":  now.Add(tokenTTL).Unix(),
	})
	signed, err := token.SignedString(s.jwtSecret)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to sign token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"jwt": signed})
}

// authenticate validates the bearer token and stashes the caller's phone
// number in the request context.
func (s *Server) authenticate(c *gin.Context) {
	header := c.GetHeader("Authorization")
	const prefix = "Bearer "
	if len(header) <= len(prefix) || header[:len(prefix)] != prefix {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "unauthorized"})
		return
	}

	parsed, err := jwt.Parse(header[len(prefix):], func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return s.jwtSecret, nil
	})
	if err != nil || !parsed.Valid {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "unauthorized"})
		return
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "unauthorized"})
		return
	}
	phone, _ := claims["sub"].(string)
	if phone == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "unauthorized"})
		return
	}

	c.Set("phone", phone)
	c.Next()
}

func (s *Server) caller(c *gin.Context) (phone string, acc *account, ok bool) {
	phone = c.GetString("phone")
	s.mu.Lock()
	acc, ok = s.accounts[phone]
	s.mu.Unlock()
	return phone, acc, ok
}

func (s *Server) handleMe(c *gin.Context) {
	_, acc, ok := s.caller(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "unauthorized"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"id":          acc.ID,
		"name":        acc.Name,
		"phoneNumber": acc.Phone,
	})
}

func (s *Server) handleListTransactions(c *gin.Context) {
	phone := c.GetString("phone")
	s.mu.Lock()
	list := make([]transaction.Transaction, len(s.transactions[phone]))
	copy(list, s.transactions[phone])
	s.mu.Unlock()
	c.JSON(http.StatusOK, list)
}

func (s *Server) handleCreateTransaction(c *gin.Context) {
	phone := c.GetString("phone")

	var params transaction.CreateParams
	if err := c.ShouldBindJSON(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid request body"})
		return
	}

	now := time.Now().Format(serverTimeLayout)
	created := transaction.Transaction{
		ID:              uuid.NewString(),
		PhoneNumber:     params.PhoneNumber,
		Amount:          params.Amount,
		SpentCategory:   params.SpentCategory,
		MethodOfPayment: params.MethodOfPayment,
		Receiver:        params.Receiver,
		DateString:      now,
		CreatedAtString: now,
	}

	s.mu.Lock()
	s.transactions[phone] = append(s.transactions[phone], created)
	s.mu.Unlock()

	c.JSON(http.StatusOK, created)
}

func (s *Server) handleDeleteTransaction(c *gin.Context) {
	phone := c.GetString("phone")
	id := c.Param("id")

	s.mu.Lock()
	list := s.transactions[phone]
	found := false
	for i, tx := range list {
		if tx.ID == id {
			s.transactions[phone] = append(list[:i], list[i+1:]...)
			found = true
			break
		}
	}
	s.mu.Unlock()

	if !found {
		c.JSON(http.StatusNotFound, gin.H{"message": "transaction not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Transaction deleted"})
}

func (s *Server) handleListMilestones(c *gin.Context) {
	phone := c.GetString("phone")
	s.mu.Lock()
	list := make([]milestone.Milestone, len(s.milestones[phone]))
	copy(list, s.milestones[phone])
	s.mu.Unlock()
	c.JSON(http.StatusOK, list)
}

func (s *Server) handleCreateMilestone(c *gin.Context) {
	phone := c.GetString("phone")

	var params milestone.CreateParams
	if err := c.ShouldBindJSON(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid request body"})
		return
	}

	created := milestone.Milestone{
		ID:              uuid.NewString(),
		SavedAmount:     params.SavedAmount,
		GoalAmount:      params.GoalAmount,
		Duration:        params.Duration,
		CreatedAtString: time.Now().Format(serverTimeLayout),
	}

	s.mu.Lock()
	s.milestones[phone] = append(s.milestones[phone], created)
	s.mu.Unlock()

	c.JSON(http.StatusOK, created)
}
