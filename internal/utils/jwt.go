package utils

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"devlinks/models"

	"github.com/golang-jwt/jwt/v5"
)

// GenerateShareToken creates a signed HMAC-SHA256 JWT for a public profile
// preview link.
//
// The token includes the following standard claims:
//   - Issuer    (iss): identifies the service that issued the token
//   - Subject   (sub): the profile owner's user ID encoded as a string
//   - IssuedAt  (iat): the current time
//   - ExpiresAt (exp): the current time plus tokenDuration
//
// All parameters are required. Returns an error if any of them are empty or zero.
//
// Parameters:
//
//	issuer        - identifier of the token issuer (e.g. service name)
//	userID        - ID of the profile owner the token is issued for
//	tokenDuration - how long the preview link remains valid
//	signKey       - secret key used to sign the token with HMAC-SHA256
//
// Returns:
//
//	models.ShareToken - contains the signed token string and the jwt.Token object
//	error             - non-nil if parameters are invalid or signing fails
//
// Example usage:
//
//	token, err := utils.GenerateShareToken("devlinks", 42, 30*24*time.Hour, "secret")
func GenerateShareToken(issuer string, userID int64, tokenDuration time.Duration, signKey string) (models.ShareToken, error) {
	if issuer == "" || tokenDuration == 0 || signKey == "" {
		return models.ShareToken{}, errors.New("invalid params for generating share token")
	}

	now := time.Now()
	claims := &jwt.RegisteredClaims{
		Issuer:    issuer,
		Subject:   strconv.FormatInt(userID, 10),
		ExpiresAt: jwt.NewNumericDate(now.Add(tokenDuration)),
		IssuedAt:  jwt.NewNumericDate(now),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(signKey))
	if err != nil {
		return models.ShareToken{}, fmt.Errorf("error occurred during signing share token: %w", err)
	}

	return models.ShareToken{Token: token, SignedString: tokenString, UserID: userID}, nil
}

// ValidateAndParseShareToken validates a share token string and extracts its claims.
//
// Validation includes:
//   - Signature verification using the provided sign key
//   - Issuer (iss) claim check against the provided tokenIssuer
//   - Expiration (exp) claim check
//   - Subject (sub) claim presence and conversion to int64 UserID
//
// Parameters:
//
//	tokenString  - the raw signed JWT string to validate and parse
//	tokenSignKey - secret key used to verify the token signature
//	tokenIssuer  - expected issuer value to validate against the iss claim
//
// Returns:
//
//	models.ShareToken - contains the parsed jwt.Token object and the extracted UserID
//	error             - non-nil if validation fails, claims are missing, or subject cannot be parsed
func ValidateAndParseShareToken(tokenString, tokenSignKey, tokenIssuer string) (models.ShareToken, error) {
	token, err := jwt.ParseWithClaims(tokenString, &models.ShareToken{}, func(token *jwt.Token) (any, error) {
		return []byte(tokenSignKey), nil
	}, jwt.WithIssuer(tokenIssuer))
	if err != nil {
		return models.ShareToken{}, fmt.Errorf("error occurred validating and parsing share token: %w", err)
	}

	userIDStr, err := token.Claims.GetSubject()
	if err != nil {
		return models.ShareToken{}, fmt.Errorf("error occurred during getting subject from share token: %w", err)
	}
	if userIDStr == "" {
		return models.ShareToken{}, errors.New("empty subject error")
	}

	userID, err := strconv.ParseInt(userIDStr, 10, 64)
	if err != nil {
		return models.ShareToken{}, fmt.Errorf("error occurred during converting subject to user ID: %w", err)
	}

	return models.ShareToken{Token: token, UserID: userID}, nil
}
