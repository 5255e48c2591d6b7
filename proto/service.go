// Copyright 2023 The CubeFS Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or
// implied. See the License for the specific language governing
// permissions and limitations under the License.

package proto

import (
	"context"

	"google.golang.org/grpc"
)

// GraphQueryServer is implemented by query.Engine and registered on the gRPC
// server by server/rpcserver.go. Every method corresponds to one request/reply pair
// in the wire protocol described by the specification.
type GraphQueryServer interface {
	GetNodeTypes(context.Context, *NodeTypesRequest) (*NodeTypesReply, error)
	GetNodeFeatures(context.Context, *NodeFeaturesRequest) (*NodeFeaturesReply, error)
	GetEdgeFeatures(context.Context, *EdgeFeaturesRequest) (*EdgeFeaturesReply, error)
	GetNodeSparseFeatures(context.Context, *NodeSparseFeaturesRequest) (*SparseFeaturesReply, error)
	GetEdgeSparseFeatures(context.Context, *EdgeSparseFeaturesRequest) (*SparseFeaturesReply, error)
	GetNodeStringFeatures(context.Context, *NodeSparseFeaturesRequest) (*StringFeaturesReply, error)
	GetEdgeStringFeatures(context.Context, *EdgeSparseFeaturesRequest) (*StringFeaturesReply, error)
	GetNeighborCounts(context.Context, *GetNeighborsRequest) (*GetNeighborCountsReply, error)
	GetNeighbors(context.Context, *GetNeighborsRequest) (*GetNeighborsReply, error)
	WeightedSampleNeighbors(context.Context, *WeightedSampleNeighborsRequest) (*WeightedSampleNeighborsReply, error)
	UniformSampleNeighbors(context.Context, *UniformSampleNeighborsRequest) (*UniformSampleNeighborsReply, error)
	GetMetadata(context.Context, *MetadataRequest) (*MetadataReply, error)
}

// GraphSamplerServer backs the process-wide sampler registry of section 4.6.
type GraphSamplerServer interface {
	CreateSampler(context.Context, *CreateSamplerRequest) (*CreateSamplerReply, error)
	Sample(context.Context, *SampleRequest) (*SampleReply, error)
}

func _GraphQuery_GetNodeTypes_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(NodeTypesRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(GraphQueryServer).GetNodeTypes(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/graphengine.GraphQuery/GetNodeTypes"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(GraphQueryServer).GetNodeTypes(ctx, req.(*NodeTypesRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _GraphQuery_GetNodeFeatures_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(NodeFeaturesRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(GraphQueryServer).GetNodeFeatures(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/graphengine.GraphQuery/GetNodeFeatures"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(GraphQueryServer).GetNodeFeatures(ctx, req.(*NodeFeaturesRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _GraphQuery_GetEdgeFeatures_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(EdgeFeaturesRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(GraphQueryServer).GetEdgeFeatures(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/graphengine.GraphQuery/GetEdgeFeatures"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(GraphQueryServer).GetEdgeFeatures(ctx, req.(*EdgeFeaturesRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _GraphQuery_GetNodeSparseFeatures_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(NodeSparseFeaturesRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(GraphQueryServer).GetNodeSparseFeatures(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/graphengine.GraphQuery/GetNodeSparseFeatures"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(GraphQueryServer).GetNodeSparseFeatures(ctx, req.(*NodeSparseFeaturesRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _GraphQuery_GetEdgeSparseFeatures_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(EdgeSparseFeaturesRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(GraphQueryServer).GetEdgeSparseFeatures(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/graphengine.GraphQuery/GetEdgeSparseFeatures"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(GraphQueryServer).GetEdgeSparseFeatures(ctx, req.(*EdgeSparseFeaturesRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _GraphQuery_GetNodeStringFeatures_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(NodeSparseFeaturesRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(GraphQueryServer).GetNodeStringFeatures(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/graphengine.GraphQuery/GetNodeStringFeatures"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(GraphQueryServer).GetNodeStringFeatures(ctx, req.(*NodeSparseFeaturesRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _GraphQuery_GetEdgeStringFeatures_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(EdgeSparseFeaturesRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(GraphQueryServer).GetEdgeStringFeatures(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/graphengine.GraphQuery/GetEdgeStringFeatures"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(GraphQueryServer).GetEdgeStringFeatures(ctx, req.(*EdgeSparseFeaturesRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _GraphQuery_GetNeighborCounts_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(GetNeighborsRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(GraphQueryServer).GetNeighborCounts(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/graphengine.GraphQuery/GetNeighborCounts"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(GraphQueryServer).GetNeighborCounts(ctx, req.(*GetNeighborsRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _GraphQuery_GetNeighbors_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(GetNeighborsRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(GraphQueryServer).GetNeighbors(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/graphengine.GraphQuery/GetNeighbors"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(GraphQueryServer).GetNeighbors(ctx, req.(*GetNeighborsRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _GraphQuery_WeightedSampleNeighbors_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(WeightedSampleNeighborsRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(GraphQueryServer).WeightedSampleNeighbors(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/graphengine.GraphQuery/WeightedSampleNeighbors"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(GraphQueryServer).WeightedSampleNeighbors(ctx, req.(*WeightedSampleNeighborsRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _GraphQuery_UniformSampleNeighbors_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(UniformSampleNeighborsRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(GraphQueryServer).UniformSampleNeighbors(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/graphengine.GraphQuery/UniformSampleNeighbors"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(GraphQueryServer).UniformSampleNeighbors(ctx, req.(*UniformSampleNeighborsRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _GraphQuery_GetMetadata_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(MetadataRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(GraphQueryServer).GetMetadata(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/graphengine.GraphQuery/GetMetadata"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(GraphQueryServer).GetMetadata(ctx, req.(*MetadataRequest))
	}
	return interceptor(ctx, in, info, handler)
}

// GraphQueryServiceDesc is handed to grpc.NewServer().RegisterService in
// place of the protoc-generated descriptor the teacher's proto package would
// otherwise ship.
var GraphQueryServiceDesc = grpc.ServiceDesc{
	ServiceName: "graphengine.GraphQuery",
	HandlerType: (*GraphQueryServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "GetNodeTypes", Handler: _GraphQuery_GetNodeTypes_Handler},
		{MethodName: "GetNodeFeatures", Handler: _GraphQuery_GetNodeFeatures_Handler},
		{MethodName: "GetEdgeFeatures", Handler: _GraphQuery_GetEdgeFeatures_Handler},
		{MethodName: "GetNodeSparseFeatures", Handler: _GraphQuery_GetNodeSparseFeatures_Handler},
		{MethodName: "GetEdgeSparseFeatures", Handler: _GraphQuery_GetEdgeSparseFeatures_Handler},
		{MethodName: "GetNodeStringFeatures", Handler: _GraphQuery_GetNodeStringFeatures_Handler},
		{MethodName: "GetEdgeStringFeatures", Handler: _GraphQuery_GetEdgeStringFeatures_Handler},
		{MethodName: "GetNeighborCounts", Handler: _GraphQuery_GetNeighborCounts_Handler},
		{MethodName: "GetNeighbors", Handler: _GraphQuery_GetNeighbors_Handler},
		{MethodName: "WeightedSampleNeighbors", Handler: _GraphQuery_WeightedSampleNeighbors_Handler},
		{MethodName: "UniformSampleNeighbors", Handler: _GraphQuery_UniformSampleNeighbors_Handler},
		{MethodName: "GetMetadata", Handler: _GraphQuery_GetMetadata_Handler},
	},
	Metadata: "graphengine/query.proto",
}

func _GraphSampler_CreateSampler_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(CreateSamplerRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(GraphSamplerServer).CreateSampler(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/graphengine.GraphSampler/CreateSampler"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(GraphSamplerServer).CreateSampler(ctx, req.(*CreateSamplerRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _GraphSampler_Sample_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(SampleRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(GraphSamplerServer).Sample(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/graphengine.GraphSampler/Sample"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(GraphSamplerServer).Sample(ctx, req.(*SampleRequest))
	}
	return interceptor(ctx, in, info, handler)
}

var GraphSamplerServiceDesc = grpc.ServiceDesc{
	ServiceName: "graphengine.GraphSampler",
	HandlerType: (*GraphSamplerServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "CreateSampler", Handler: _GraphSampler_CreateSampler_Handler},
		{MethodName: "Sample", Handler: _GraphSampler_Sample_Handler},
	},
	Metadata: "graphengine/sampler.proto",
}

func RegisterGraphQueryServer(s grpc.ServiceRegistrar, srv GraphQueryServer) {
	s.RegisterService(&GraphQueryServiceDesc, srv)
}

func RegisterGraphSamplerServer(s grpc.ServiceRegistrar, srv GraphSamplerServer) {
	s.RegisterService(&GraphSamplerServiceDesc, srv)
}
