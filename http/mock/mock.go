// Package mock provides helpers for testing the HTTP handlers.
package mock

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"

	"github.com/buildlens/core/encoding/json"
	"github.com/buildlens/core/http/api"
	"github.com/buildlens/core/http/errorhandler"
	"github.com/buildlens/core/http/validator"
	"github.com/buildlens/core/io/fs"

	"github.com/invopop/jsonschema"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"github.com/xeipuuv/gojsonschema"
)

// DummyFilesystem returns a memory filesystem with the given files.
func DummyFilesystem(t require.TestingT, files map[string]string) fs.Filesystem {
	memfs, err := fs.NewMemFilesystem(fs.MemConfig{})
	require.NoError(t, err)

	for name, data := range files {
		_, _, err := memfs.WriteFile(name, []byte(data))
		require.NoError(t, err)
	}

	return memfs
}

func DummyEcho() *echo.Echo {
	router := echo.New()
	router.HideBanner = true
	router.HidePort = true
	router.HTTPErrorHandler = errorhandler.HTTPErrorHandler
	router.Logger.SetOutput(io.Discard)
	router.Validator = validator.New()

	return router
}

type Response struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Header  http.Header
	Raw     []byte
	Data    interface{}
}

func Request(t require.TestingT, httpstatus int, router *echo.Echo, method, path string, data io.Reader) *Response {
	return RequestEx(t, httpstatus, router, method, path, data, true)
}

func RequestEx(t require.TestingT, httpstatus int, router *echo.Echo, method, path string, data io.Reader, checkResponse bool) *Response {
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(method, path, data)
	if data != nil {
		req.Header.Add("Content-Type", "application/json")
	}
	router.ServeHTTP(w, req)

	var response *Response = nil

	if checkResponse {
		response = CheckResponse(t, w.Result())
	} else {
		response = CheckResponseMinimal(t, w.Result())
	}

	require.Equal(t, httpstatus, w.Code, string(response.Raw))

	return response
}

func CheckResponseMinimal(t require.TestingT, res *http.Response) *Response {
	response := &Response{
		Code:   res.StatusCode,
		Header: res.Header,
	}

	res.Body.Close()

	return response
}

func CheckResponse(t require.TestingT, res *http.Response) *Response {
	response := &Response{
		Code:   res.StatusCode,
		Header: res.Header,
	}

	body, err := io.ReadAll(res.Body)
	require.Equal(t, nil, err)

	response.Raw = body

	if strings.Contains(res.Header.Get("Content-Type"), "application/json") {
		err := json.Unmarshal(body, &response.Data)
		require.Equal(t, nil, err)
	} else {
		response.Data = body
	}

	if response.Code != http.StatusOK {
		apierr := api.Error{}
		if err := json.Unmarshal(body, &apierr); err == nil {
			response.Message = apierr.Message
		}
	}

	return response
}

// Validate checks data against the JSON schema of datatype.
func Validate(t require.TestingT, datatype, data interface{}) bool {
	schema, err := jsonschema.Reflect(datatype).MarshalJSON()
	require.NoError(t, err)

	schemaLoader := gojsonschema.NewStringLoader(string(schema))
	documentLoader := gojsonschema.NewGoLoader(data)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	require.Equal(t, nil, err)
	require.Equal(t, true, result.Valid(), result.Errors())

	return true
}

// Decode converts the data of a JSON response into v.
func Decode(t require.TestingT, response *Response, v interface{}) {
	require.NoError(t, json.Unmarshal(response.Raw, v))
}

func Read(t require.TestingT, path string) io.Reader {
	data, err := os.ReadFile(path)
	require.Equal(t, nil, err)

	return bytes.NewReader(data)
}
