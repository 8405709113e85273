package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

const (
	collectionURI    = "tabtree://collection"
	groupTemplateURI = "tabtree://groups/{ref}"
)

func registerResources(srv *server.MCPServer, svc *Service) {
	registerCollectionResource(srv, svc)
	registerGroupTemplate(srv, svc)
}

func registerCollectionResource(srv *server.MCPServer, svc *Service) {
	resource := mcp.NewResource(
		collectionURI,
		"Collection",
		mcp.WithResourceDescription("Every saved group with counts, in display order."),
		mcp.WithMIMEType("application/json"),
	)

	srv.AddResource(resource, func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		overview, err := svc.Overview()
		if err != nil {
			return nil, err
		}
		return encodeResourceJSON(request.Params.URI, overview)
	})
}

func registerGroupTemplate(srv *server.MCPServer, svc *Service) {
	template := mcp.NewResourceTemplate(
		groupTemplateURI,
		"Group",
		mcp.WithTemplateDescription("The windows and tabs of one group, by index, id or name."),
		mcp.WithTemplateMIMEType("application/json"),
	)

	srv.AddResourceTemplate(template, func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		ref := templateArg(request.Params.Arguments["ref"])
		if ref == "" {
			return nil, fmt.Errorf("group reference is required")
		}
		group, err := svc.Group(ref)
		if err != nil {
			return nil, err
		}
		return encodeResourceJSON(request.Params.URI, group)
	})
}

// templateArg reads a URI template variable, which the server may hand over
// as a string or a single-element list.
func templateArg(v any) string {
	switch v := v.(type) {
	case string:
		return v
	case []string:
		if len(v) > 0 {
			return v[0]
		}
	}
	return ""
}

func encodeResourceJSON(uri string, payload any) ([]mcp.ResourceContents, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
