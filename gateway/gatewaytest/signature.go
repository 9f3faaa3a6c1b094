package gatewaytest

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Credentials the server signs and verifies file URLs with.
const (
	AccessKey = "test-key"
	SecretKey = "test-secret"
	Region    = "us-east-1"
)

const (
	signatureAlgorithm = "AWS4-HMAC-SHA256"
	maxExpiresSeconds  = 604800
	amzDateTimeFormat  = "20060102T150405Z"
	amzDateFormat      = "20060102"
	signingService     = "s3"
)

var errBadSignature = errors.New("bad signature")

type presignParams struct {
	accessKey     string
	dateStamp     string
	region        string
	service       string
	requestTime   time.Time
	expires       int
	signedHeaders string
	signature     string
}

// verifyPresigned checks an S3 SigV4 query signature against SecretKey.
// Only UNSIGNED-PAYLOAD requests are supported.
func verifyPresigned(r *http.Request) error {
	query := r.URL.Query()

	params, err := parsePresignParams(query)
	if err != nil {
		return err
	}

	if time.Now().After(params.requestTime.Add(time.Duration(params.expires) * time.Second)) {
		return fmt.Errorf("signature expired: %w", errBadSignature)
	}
	if params.dateStamp != params.requestTime.Format(amzDateFormat) {
		return fmt.Errorf("credential date mismatch: %w", errBadSignature)
	}
	if params.region != Region || params.service != signingService {
		return fmt.Errorf("credential scope mismatch: %w", errBadSignature)
	}
	if params.accessKey != AccessKey {
		return fmt.Errorf("unknown access key %q: %w", params.accessKey, errBadSignature)
	}

	// Go keeps Host out of the header map.
	headers := r.Header.Clone()
	headers.Set("Host", r.Host)

	expected := signPresigned(SecretKey, r.Method, r.URL.EscapedPath(), query, headers, params)
	if !hmac.Equal([]byte(expected), []byte(params.signature)) {
		return fmt.Errorf("signature mismatch: %w", errBadSignature)
	}
	return nil
}

func parsePresignParams(query url.Values) (*presignParams, error) {
	algorithm := query.Get("X-Amz-Algorithm")
	credential := query.Get("X-Amz-Credential")
	amzDate := query.Get("X-Amz-Date")
	amzExpires := query.Get("X-Amz-Expires")
	signedHeaders := query.Get("X-Amz-SignedHeaders")
	signature := query.Get("X-Amz-Signature")

	if algorithm == "" || credential == "" || amzDate == "" ||
		amzExpires == "" || signedHeaders == "" || signature == "" {
		return nil, fmt.Errorf("missing signature parameters: %w", errBadSignature)
	}
	if algorithm != signatureAlgorithm {
		return nil, fmt.Errorf("unsupported algorithm %s: %w", algorithm, errBadSignature)
	}

	requestTime, err := time.Parse(amzDateTimeFormat, amzDate)
	if err != nil {
		return nil, fmt.Errorf("invalid X-Amz-Date: %w", errBadSignature)
	}

	expires, err := strconv.Atoi(amzExpires)
	if err != nil || expires <= 0 || expires > maxExpiresSeconds {
		return nil, fmt.Errorf("invalid X-Amz-Expires: %w", errBadSignature)
	}

	parts := strings.Split(credential, "/")
	if len(parts) != 5 || parts[4] != "aws4_request" {
		return nil, fmt.Errorf("invalid X-Amz-Credential: %w", errBadSignature)
	}

	return &presignParams{
		accessKey:     parts[0],
		dateStamp:     parts[1],
		region:        parts[2],
		service:       parts[3],
		requestTime:   requestTime,
		expires:       expires,
		signedHeaders: signedHeaders,
		signature:     signature,
	}, nil
}

func signPresigned(secretKey, method, path string, query url.Values, headers http.Header, p *presignParams) string {
	canonicalRequest := strings.Join([]string{
		method,
		path,
		canonicalQuery(query),
		canonicalHeaders(headers, p.signedHeaders),
		p.signedHeaders,
		"UNSIGNED-PAYLOAD",
	}, "\n")

	scope := fmt.Sprintf("%s/%s/%s/aws4_request", p.dateStamp, p.region, p.service)
	stringToSign := strings.Join([]string{
		signatureAlgorithm,
		p.requestTime.Format(amzDateTimeFormat),
		scope,
		hexSHA256(canonicalRequest),
	}, "\n")

	key := hmacSHA256([]byte("AWS4"+secretKey), []byte(p.dateStamp))
	key = hmacSHA256(key, []byte(p.region))
	key = hmacSHA256(key, []byte(p.service))
	key = hmacSHA256(key, []byte("aws4_request"))

	return hex.EncodeToString(hmacSHA256(key, []byte(stringToSign)))
}

func canonicalQuery(query url.Values) string {
	params := url.Values{}
	for k, v := range query {
		if k != "X-Amz-Signature" {
			params[k] = v
		}
	}
	return strings.ReplaceAll(params.Encode(), "+", "%20")
}

// canonicalHeaders renders the signed headers as sorted "name:value\n" lines.
func canonicalHeaders(headers http.Header, signedHeaders string) string {
	names := strings.Split(signedHeaders, ";")
	sort.Strings(names)

	var b strings.Builder
	for _, name := range names {
		b.WriteString(name)
		b.WriteString(":")
		b.WriteString(strings.TrimSpace(headers.Get(name)))
		b.WriteString("\n")
	}
	return b.String()
}

func hmacSHA256(key, data []byte) []byte {
	h := hmac.New(sha256.New, key)
	h.Write(data)
	return h.Sum(nil)
}

func hexSHA256(data string) string {
	sum := sha256.Sum256([]byte(data))
	return hex.EncodeToString(sum[:])
}
