package middleware

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/festive-labs/santagames-backend/internal/pkg/reject"
	"github.com/festive-labs/santagames-backend/internal/pkg/utils"
	"github.com/festive-labs/santagames-backend/internal/pkg/web"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

const (
	accessTokenRequired string = "error.token.required"
	accessTokenInvalid  string = "error.token.invalid"
)

// VerifyAuthToken resolves the acting user from the bearer token. Token
// issuance is the identity provider's job; game code downstream only ever
// sees the verified user id and display name from the gin context.
func VerifyAuthToken(c *gin.Context) {
	authHeader := c.Request.Header.Get("Authorization")
	tokenValue := strings.TrimSpace(strings.ReplaceAll(authHeader, "Bearer", ""))
	if tokenValue == "" {
		log.Warn().Msg("Token missing: 401")
		web.AbortWithProblem(c, reject.NewProblem().
			WithTitle("Missing access token").
			WithStatus(http.StatusUnauthorized).
			WithCode(accessTokenRequired).
			Build())
		return
	}

	claims := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(tokenValue, claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return []byte(viper.GetString("JWT_SECRET")), nil
	})
	if err != nil {
		log.Warn().Msg(fmt.Sprintf("Error verifying token: %s", err.Error()))
		web.AbortWithProblem(c, reject.NewProblem().
			WithTitle("Cannot verify access token").
			WithStatus(http.StatusUnauthorized).
			WithCode(accessTokenInvalid).
			WithDetail(err.Error()).
			Build())
		return
	}

	subject, _ := claims.GetSubject()
	userId, parseErr := strconv.ParseUint(subject, 10, 64)
	if parseErr != nil {
		web.AbortWithProblem(c, reject.NewProblem().
			WithTitle("Cannot verify access token").
			WithStatus(http.StatusUnauthorized).
			WithCode(accessTokenInvalid).
			WithDetail("token subject is not a user id").
			Build())
		return
	}

	utils.SetUserIdCtx(userId, c)
}
