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

package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net"
	"sync"
	"time"

	"github.com/cubefs/cubefs/blobstore/common/trace"
	"github.com/cubefs/cubefs/blobstore/util/log"
	"github.com/google/uuid"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/encoding"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/cubefs/graphserving/metrics"
	"github.com/cubefs/graphserving/proto"
)

// reqIDMetadataKey is the incoming gRPC metadata key a caller can set to
// correlate a request across the tracer and the audit log.
const reqIDMetadataKey = "req-id"

var auditLogPool = sync.Pool{
	New: func() interface{} {
		return new(bytes.Buffer)
	},
}

// RPCServer exposes the query engine over the gob-codec grpc transport
// described in proto/codec.go. It defines no RPC methods of its own: the
// embedded server's *query.Engine, which implements proto.GraphQueryServer
// and proto.GraphSamplerServer in full, is registered directly.
type RPCServer struct {
	*Server
	grpcServer *grpc.Server
}

// NewRPCServer wires the query engine into a grpc.Server with tracing,
// audit logging and Prometheus metrics interceptors chained in that order.
func NewRPCServer(server *Server) *RPCServer {
	rs := &RPCServer{Server: server}

	rs.grpcServer = grpc.NewServer(
		grpc.ForceServerCodec(encoding.GetCodec("gob")),
		grpc.ChainUnaryInterceptor(
			rs.unaryInterceptorWithTracer,
			rs.unaryInterceptorWithAuditLog,
			metrics.GRPCMetrics.UnaryServerInterceptor(),
		),
	)

	proto.RegisterGraphQueryServer(rs.grpcServer, rs.engine)
	proto.RegisterGraphSamplerServer(rs.grpcServer, rs.engine)
	metrics.GRPCMetrics.InitializeMetrics(rs.grpcServer)

	return rs
}

// Serve binds addr and runs the grpc server until Stop is called.
func (r *RPCServer) Serve(addr string) {
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		log.Fatalf("rpc server listen %s: %s", addr, err)
	}
	go func() {
		if err := r.grpcServer.Serve(lis); err != nil {
			log.Error("rpc server exits: ", err)
		}
	}()
	log.Info("rpc server is running at: ", addr)
}

// Stop gracefully drains in-flight calls before returning.
func (r *RPCServer) Stop() {
	r.grpcServer.GracefulStop()
}

func (r *RPCServer) unaryInterceptorWithTracer(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (resp interface{}, err error) {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return nil, status.Error(codes.Internal, "failed to get metadata")
	}
	reqID, ok := md[reqIDMetadataKey]
	if ok {
		trace.StartSpanFromContextWithTraceID(ctx, info.FullMethod, reqID[0])
	} else {
		// caller didn't set one; mint a trace id so the audit log line for
		// this call can still be correlated after the fact.
		trace.StartSpanFromContextWithTraceID(ctx, info.FullMethod, uuid.NewString())
	}

	resp, err = handler(ctx, req)
	return
}

func (r *RPCServer) unaryInterceptorWithAuditLog(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (resp interface{}, err error) {
	start := time.Now()

	resp, err = handler(ctx, req)

	in, _ := json.Marshal(req)
	out, _ := json.Marshal(resp)
	duration := time.Since(start)

	bw := auditLogPool.Get().(*bytes.Buffer)
	defer auditLogPool.Put(bw)
	bw.Reset()
	bw.WriteString(info.FullMethod)
	bw.WriteByte('\t')
	bw.Write(in)
	bw.WriteByte('\t')
	bw.Write(out)
	bw.WriteByte('\t')
	bw.WriteString(duration.String())
	if err != nil {
		bw.WriteByte('\t')
		bw.WriteString(err.Error())
	}
	log.Info(bw.String())

	return
}
