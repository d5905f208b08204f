package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"gitlab.com/dirk.krummacker/person-service/internal/logger"
	"gitlab.com/dirk.krummacker/person-service/internal/service"
	"gitlab.com/dirk.krummacker/person-service/pkg/model"
)

// EntityService is what the REST endpoints of one entity type need from the service layer.
type EntityService[D any] interface {
	Create(ctx context.Context, d D) (model.MessageResponse, error)
	ListAll(ctx context.Context) ([]D, error)
	FindById(ctx context.Context, id int64) (D, error)
	Update(ctx context.Context, id int64, d D) (model.MessageResponse, error)
	Delete(ctx context.Context, id int64) error
}

// entityHandler binds the REST endpoints of one entity type to its service.
type entityHandler[D any] struct {
	service EntityService[D]
	log     zerolog.Logger
}

// SetupHttpRouter initializes the REST API router and registers all endpoints. Request logging
// can be switched off for load tests.
func SetupHttpRouter(persons EntityService[model.PersonDTO], phones EntityService[model.PhoneDTO],
	log zerolog.Logger, requestLogging bool) (*gin.Engine, error) {
	if err := RegisterValidations(); err != nil {
		return nil, err
	}
	router := gin.New()
	if requestLogging {
		router.Use(logger.GinMiddleware(log))
	} else {
		log.Info().Msg("Turning off HTTP request logging.")
	}
	router.Use(gin.Recovery())

	api := router.Group("/api/v1")
	register(api.Group("/people"), &entityHandler[model.PersonDTO]{service: persons, log: log})
	register(api.Group("/phones"), &entityHandler[model.PhoneDTO]{service: phones, log: log})
	return router, nil
}

func register[D any](group *gin.RouterGroup, h *entityHandler[D]) {
	group.POST("", h.create)
	group.GET("", h.listAll)
	group.GET("/:id", h.findById)
	group.PUT("/:id", h.update)
	group.DELETE("/:id", h.delete)
}

// create stores the entity given in the request's JSON and responds with a message that contains
// the new id.
//
// Example REST API call:
//
//	> curl http://localhost:8080/api/v1/people --request "POST" --include --header "Content-Type: application/json" --data '{"firstName": "Ana", "lastName": "Lima", "cpf": "369.333.878-79", "birthDate": "1990-01-01", "phones": [{"type": "MOBILE", "number": "(11)99999-9999"}]}'
func (h *entityHandler[D]) create(c *gin.Context) {
	var d D
	if err := c.ShouldBindJSON(&d); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "invalid request body: " + err.Error()})
		return
	}
	ack, err := h.service.Create(c.Request.Context(), d)
	if err != nil {
		h.respondWithError(c, err)
		return
	}
	c.IndentedJSON(http.StatusCreated, ack)
}

// listAll responds with the list of all entities as JSON.
//
// Example REST API call:
//
//	> curl http://localhost:8080/api/v1/people
func (h *entityHandler[D]) listAll(c *gin.Context) {
	all, err := h.service.ListAll(c.Request.Context())
	if err != nil {
		h.respondWithError(c, err)
		return
	}
	c.IndentedJSON(http.StatusOK, all)
}

// findById responds with the entity whose id matches the id parameter of the request URL.
//
// Example REST API call:
//
//	> curl http://localhost:8080/api/v1/people/56
func (h *entityHandler[D]) findById(c *gin.Context) {
	id, ok := parseId(c)
	if !ok {
		return
	}
	d, err := h.service.FindById(c.Request.Context(), id)
	if err != nil {
		h.respondWithError(c, err)
		return
	}
	c.IndentedJSON(http.StatusOK, d)
}

// update replaces all values of the entity whose id matches the id parameter of the request URL.
//
// Example REST API call:
//
//	> curl http://localhost:8080/api/v1/phones/56 --request "PUT" --include --header "Content-Type: application/json" --data '{"type": "HOME", "number": "(11)3333-4444"}'
func (h *entityHandler[D]) update(c *gin.Context) {
	id, ok := parseId(c)
	if !ok {
		return
	}
	var d D
	if err := c.ShouldBindJSON(&d); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "invalid request body: " + err.Error()})
		return
	}
	ack, err := h.service.Update(c.Request.Context(), id, d)
	if err != nil {
		h.respondWithError(c, err)
		return
	}
	c.IndentedJSON(http.StatusOK, ack)
}

// delete removes the entity whose id matches the id parameter of the request URL.
//
// Example REST API call:
//
//	> curl http://localhost:8080/api/v1/people/56 --request "DELETE"
func (h *entityHandler[D]) delete(c *gin.Context) {
	id, ok := parseId(c)
	if !ok {
		return
	}
	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		h.respondWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// parseId reads the id parameter of the request URL. A malformed id is answered like an
// unknown one.
func parseId(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"message": "invalid id parameter"})
		return 0, false
	}
	return id, true
}

// respondWithError translates a service error into an HTTP status.
func (h *entityHandler[D]) respondWithError(c *gin.Context, err error) {
	var notFound *service.NotFoundError
	if errors.As(err, &notFound) {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"message": notFound.Error()})
		return
	}
	h.log.Error().Err(err).Str("path", c.Request.URL.Path).Msg("request failed")
	c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": "internal server error"})
}
