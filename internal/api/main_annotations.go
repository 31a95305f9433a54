// @title           tmarks API
// @version         1.0
// @description     Bookmark manager API. Authenticate with an API key.
// @BasePath        /api/v1
// @securityDefinitions.apikey BearerKey
// @in              header
// @name            Authorization
// @description     Type "Bearer" followed by a space and your API key. Example: "Bearer tm_xxx"
package api
