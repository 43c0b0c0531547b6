package lambda_test

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"testing"

	"github.com/aws/aws-lambda-go/events"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"

	"github.com/m-mizutani/sitedrop/pkg/controller/lambda"
	"github.com/m-mizutani/sitedrop/pkg/domain/model"
)

// MockDeployUseCase is a mock implementation of DeployUseCase
type MockDeployUseCase struct {
	deployFunc  func(ctx context.Context, req *model.DeployRequest) (*model.DeployResult, error)
	deployCalls []*model.DeployRequest
}

func (m *MockDeployUseCase) Deploy(ctx context.Context, req *model.DeployRequest) (*model.DeployResult, error) {
	m.deployCalls = append(m.deployCalls, req)
	if m.deployFunc != nil {
		return m.deployFunc(ctx, req)
	}
	return nil, errors.New("mock not configured")
}

func succeed(ctx context.Context, req *model.DeployRequest) (*model.DeployResult, error) {
	return &model.DeployResult{
		Success: true,
		URL:     "https://" + req.SiteName + ".netlify.app",
		Message: model.MessageDeploySucceeded,
	}, nil
}

func multipartBody(t *testing.T, siteName string, files map[string]string) (string, []byte) {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	gt.NoError(t, w.WriteField("siteName", siteName))
	for name, content := range files {
		fw, err := w.CreateFormFile("files", name)
		gt.NoError(t, err)
		_, err = fw.Write([]byte(content))
		gt.NoError(t, err)
	}
	gt.NoError(t, w.Close())
	return w.FormDataContentType(), buf.Bytes()
}

func decodeResult(t *testing.T, resp events.APIGatewayProxyResponse) model.DeployResult {
	t.Helper()
	var result model.DeployResult
	gt.NoError(t, json.Unmarshal([]byte(resp.Body), &result))
	return result
}

func TestHandler_Base64Body(t *testing.T) {
	mock := &MockDeployUseCase{deployFunc: succeed}
	handler := lambda.NewHandler(mock, 0)

	contentType, body := multipartBody(t, "my-test-site", map[string]string{"index.html": "<h1>hi</h1>"})

	resp, err := handler.Handle(context.Background(), events.APIGatewayProxyRequest{
		HTTPMethod:      http.MethodPost,
		Headers:         map[string]string{"content-type": contentType},
		Body:            base64.StdEncoding.EncodeToString(body),
		IsBase64Encoded: true,
	})
	gt.NoError(t, err)
	gt.Number(t, resp.StatusCode).Equal(http.StatusOK)
	gt.Value(t, resp.Headers["Content-Type"]).Equal("application/json")

	result := decodeResult(t, resp)
	gt.True(t, result.Success)
	gt.Value(t, result.URL).Equal("https://my-test-site.netlify.app")

	gt.Number(t, len(mock.deployCalls)).Equal(1)
	req := mock.deployCalls[0]
	gt.Value(t, req.SiteName).Equal("my-test-site")
	gt.Number(t, len(req.Files)).Equal(1)
	gt.Value(t, req.Files[0].Filename).Equal("index.html")
	gt.Value(t, string(req.Files[0].Content)).Equal("<h1>hi</h1>")
}

func TestHandler_RawBody(t *testing.T) {
	mock := &MockDeployUseCase{deployFunc: succeed}
	handler := lambda.NewHandler(mock, 0)

	contentType, body := multipartBody(t, "raw-site", map[string]string{"a.html": "a"})

	resp, err := handler.Handle(context.Background(), events.APIGatewayProxyRequest{
		HTTPMethod: http.MethodPost,
		Headers:    map[string]string{"Content-Type": contentType},
		Body:       string(body),
	})
	gt.NoError(t, err)
	gt.Number(t, resp.StatusCode).Equal(http.StatusOK)
	gt.Value(t, mock.deployCalls[0].SiteName).Equal("raw-site")
}

func TestHandler_MethodNotAllowed(t *testing.T) {
	mock := &MockDeployUseCase{deployFunc: succeed}
	handler := lambda.NewHandler(mock, 0)

	resp, err := handler.Handle(context.Background(), events.APIGatewayProxyRequest{
		HTTPMethod: http.MethodGet,
		Body:       "not even multipart",
	})
	gt.NoError(t, err)
	gt.Number(t, resp.StatusCode).Equal(http.StatusMethodNotAllowed)
	gt.Value(t, resp.Headers["Allow"]).Equal(http.MethodPost)
	gt.Value(t, decodeResult(t, resp).Message).Equal(model.MessageMethodNotAllow)
	gt.Number(t, len(mock.deployCalls)).Equal(0)
}

func TestHandler_Errors(t *testing.T) {
	contentType, body := multipartBody(t, "my-site", map[string]string{"index.html": "x"})

	tests := []struct {
		name        string
		event       events.APIGatewayProxyRequest
		deployErr   error
		maxBytes    int64
		wantStatus  int
		wantMessage string
		wantCalls   int
	}{
		{
			name: "Invalid base64",
			event: events.APIGatewayProxyRequest{
				HTTPMethod:      http.MethodPost,
				Headers:         map[string]string{"Content-Type": contentType},
				Body:            "%%%not-base64%%%",
				IsBase64Encoded: true,
			},
			wantStatus:  http.StatusInternalServerError,
			wantMessage: model.MessageInternalError,
		},
		{
			name: "Not multipart",
			event: events.APIGatewayProxyRequest{
				HTTPMethod: http.MethodPost,
				Headers:    map[string]string{"Content-Type": "application/json"},
				Body:       `{"siteName":"x"}`,
			},
			wantStatus:  http.StatusInternalServerError,
			wantMessage: model.MessageInternalError,
		},
		{
			name: "Too large",
			event: events.APIGatewayProxyRequest{
				HTTPMethod: http.MethodPost,
				Headers:    map[string]string{"Content-Type": contentType},
				Body:       string(body),
			},
			maxBytes:    16,
			wantStatus:  http.StatusRequestEntityTooLarge,
			wantMessage: model.MessageTooLarge,
		},
		{
			name: "Validation error from use case",
			event: events.APIGatewayProxyRequest{
				HTTPMethod: http.MethodPost,
				Headers:    map[string]string{"Content-Type": contentType},
				Body:       string(body),
			},
			deployErr:   &model.ValidationError{Field: "siteName", Message: model.MessageInvalidSiteName},
			wantStatus:  http.StatusBadRequest,
			wantMessage: model.MessageInvalidSiteName,
			wantCalls:   1,
		},
		{
			name: "Conflict wrapped by use case",
			event: events.APIGatewayProxyRequest{
				HTTPMethod: http.MethodPost,
				Headers:    map[string]string{"Content-Type": contentType},
				Body:       string(body),
			},
			deployErr:   goerr.Wrap(&model.ConflictError{SiteName: "my-site"}, "failed to create site"),
			wantStatus:  http.StatusBadRequest,
			wantMessage: model.MessageSiteNameTaken,
			wantCalls:   1,
		},
		{
			name: "Missing credential",
			event: events.APIGatewayProxyRequest{
				HTTPMethod: http.MethodPost,
				Headers:    map[string]string{"Content-Type": contentType},
				Body:       string(body),
			},
			deployErr:   goerr.Wrap(&model.ConfigError{Field: "token"}, "cannot deploy"),
			wantStatus:  http.StatusInternalServerError,
			wantMessage: model.MessageMisconfigured,
			wantCalls:   1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := &MockDeployUseCase{
				deployFunc: func(ctx context.Context, req *model.DeployRequest) (*model.DeployResult, error) {
					if tt.deployErr != nil {
						return nil, tt.deployErr
					}
					return succeed(ctx, req)
				},
			}
			handler := lambda.NewHandler(mock, tt.maxBytes)

			resp, err := handler.Handle(context.Background(), tt.event)
			gt.NoError(t, err)
			gt.Number(t, resp.StatusCode).Equal(tt.wantStatus)

			result := decodeResult(t, resp)
			gt.False(t, result.Success)
			gt.Value(t, result.Message).Equal(tt.wantMessage)
			gt.Number(t, len(mock.deployCalls)).Equal(tt.wantCalls)
		})
	}
}
