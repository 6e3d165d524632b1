package service

import (
	"context"
	nethttp "net/http"

	"github.com/go-kratos/kratos/v2/transport/http"
)

const (
	OperationShortenerCreateShortLink = "/shortener.v1.Shortener/CreateShortLink"
	OperationShortenerListLinks       = "/shortener.v1.Shortener/ListLinks"
	OperationShortenerGetStats        = "/shortener.v1.Shortener/GetStats"
	OperationShortenerRedirect        = "/shortener.v1.Shortener/Redirect"
)

// RegisterShortenerHTTPServer registers the shortener routes on s.
func RegisterShortenerHTTPServer(s *http.Server, srv *ShortenerService) {
	r := s.Route("/")
	r.POST("/v1/links", _Shortener_CreateShortLink_HTTP_Handler(srv))
	r.GET("/v1/links", _Shortener_ListLinks_HTTP_Handler(srv))
	r.GET("/v1/links/{slug}/stats", _Shortener_GetStats_HTTP_Handler(srv))
	r.GET("/r/{slug}", _Shortener_Redirect_HTTP_Handler(srv))
}

func _Shortener_CreateShortLink_HTTP_Handler(srv *ShortenerService) func(ctx http.Context) error {
	return func(ctx http.Context) error {
		var in CreateShortLinkRequest
		if err := ctx.Bind(&in); err != nil {
			return err
		}
		http.SetOperation(ctx, OperationShortenerCreateShortLink)
		h := ctx.Middleware(func(ctx context.Context, req interface{}) (interface{}, error) {
			return srv.CreateShortLink(ctx, req.(*CreateShortLinkRequest))
		})
		out, err := h(ctx, &in)
		if err != nil {
			return err
		}
		reply := out.(*CreateShortLinkReply)
		return ctx.Result(nethttp.StatusCreated, reply)
	}
}

func _Shortener_ListLinks_HTTP_Handler(srv *ShortenerService) func(ctx http.Context) error {
	return func(ctx http.Context) error {
		var in ListLinksRequest
		http.SetOperation(ctx, OperationShortenerListLinks)
		h := ctx.Middleware(func(ctx context.Context, req interface{}) (interface{}, error) {
			return srv.ListLinks(ctx, req.(*ListLinksRequest))
		})
		out, err := h(ctx, &in)
		if err != nil {
			return err
		}
		reply := out.(*ListLinksReply)
		return ctx.Result(nethttp.StatusOK, reply)
	}
}

func _Shortener_GetStats_HTTP_Handler(srv *ShortenerService) func(ctx http.Context) error {
	return func(ctx http.Context) error {
		in := GetStatsRequest{Slug: ctx.Vars().Get("slug")}
		http.SetOperation(ctx, OperationShortenerGetStats)
		h := ctx.Middleware(func(ctx context.Context, req interface{}) (interface{}, error) {
			return srv.GetStats(ctx, req.(*GetStatsRequest))
		})
		out, err := h(ctx, &in)
		if err != nil {
			return err
		}
		reply := out.(*GetStatsReply)
		return ctx.Result(nethttp.StatusOK, reply)
	}
}

func _Shortener_Redirect_HTTP_Handler(srv *ShortenerService) func(ctx http.Context) error {
	return func(ctx http.Context) error {
		in := RedirectRequest{Slug: ctx.Vars().Get("slug")}
		http.SetOperation(ctx, OperationShortenerRedirect)
		h := ctx.Middleware(func(ctx context.Context, req interface{}) (interface{}, error) {
			return srv.Redirect(ctx, req.(*RedirectRequest))
		})
		out, err := h(ctx, &in)
		if err != nil {
			return err
		}
		reply := out.(*RedirectReply)
		nethttp.Redirect(ctx.Response(), ctx.Request(), reply.URL, nethttp.StatusFound)
		return nil
	}
}
