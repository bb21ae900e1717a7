package storefrontserver

import (
	"errors"

	"github.com/gin-gonic/gin"

	catalogapp "github.com/Apurer/go-gin-storefront-api/internal/domains/catalog/application"
	catalogports "github.com/Apurer/go-gin-storefront-api/internal/domains/catalog/ports"
	mediadomain "github.com/Apurer/go-gin-storefront-api/internal/domains/media/domain"
	orderapp "github.com/Apurer/go-gin-storefront-api/internal/domains/orders/application"
	orderports "github.com/Apurer/go-gin-storefront-api/internal/domains/orders/ports"
	reviewdomain "github.com/Apurer/go-gin-storefront-api/internal/domains/reviews/domain"
	reviewports "github.com/Apurer/go-gin-storefront-api/internal/domains/reviews/ports"
	"github.com/Apurer/go-gin-storefront-api/internal/platform/auth"
	apierrors "github.com/Apurer/go-gin-storefront-api/internal/shared/errors"
)

var problems = apierrors.NewResponder(
	apierrors.MapSentinel(orderports.ErrNotFound, apierrors.ErrNotFound),
	apierrors.MapSentinel(orderapp.ErrConflict, apierrors.ErrConflict),
	apierrors.MapSentinel(orderapp.ErrInvalidInput, apierrors.ErrBadRequest),
	apierrors.MapSentinel(catalogports.ErrNotFound, apierrors.ErrNotFound),
	apierrors.MapSentinel(catalogapp.ErrInvalidInput, apierrors.ErrBadRequest),
	mapReviewValidation,
	apierrors.MapSentinel(reviewports.ErrProductNotFound, apierrors.ErrNotFound),
	mapNoFiles,
	apierrors.MapSentinel(mediadomain.ErrNotImage, apierrors.ErrBadRequest),
	apierrors.MapSentinel(mediadomain.ErrEmpty, apierrors.ErrBadRequest),
	apierrors.MapSentinel(auth.ErrMissingToken, apierrors.ErrUnauthorized),
	apierrors.MapSentinel(auth.ErrInvalidToken, apierrors.ErrUnauthorized),
)

func mapReviewValidation(err error) (apierrors.ProblemDetail, bool) {
	var validation *reviewdomain.ValidationError
	if errors.As(err, &validation) {
		return apierrors.NewValidationProblem(validation.Fields), true
	}
	return apierrors.ProblemDetail{}, false
}

func mapNoFiles(err error) (apierrors.ProblemDetail, bool) {
	if errors.Is(err, mediadomain.ErrNoFiles) {
		return apierrors.ErrBadRequest.WithDetail("No files provided"), true
	}
	return apierrors.ProblemDetail{}, false
}

// respondError writes the problem mapped from a service error.
func respondError(c *gin.Context, err error) {
	problems.RespondError(c, err)
}

// respondBadRequest reports malformed transport input such as an unreadable body.
func respondBadRequest(c *gin.Context, err error) {
	problems.BadRequest(c, err)
}

func respondStatus(c *gin.Context, status int, detail string) {
	problems.Respond(c, apierrors.ForStatus(status).WithDetail(detail))
}
