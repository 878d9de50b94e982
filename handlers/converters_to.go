package handlers

import (
	"encoding/binary"

	"sixpmaster/domain"
)

// toInfoRequest builds the info_request body: the client's token followed by its challenge.
func toInfoRequest(token domain.Token, challenge domain.Challenge) []byte {
	out := make([]byte, 0, len(token)+len(challenge))
	out = append(out, token[:]...)
	out = append(out, challenge[:]...)
	return out
}

// toDirectoryListing encodes endpoints as concatenated 6-byte records (IPv4, port; network byte order)
// in the order given. At most domain.MaxDirectoryEntries are written; non-IPv4 entries are skipped.
func toDirectoryListing(endpoints []domain.Endpoint) []byte {
	if len(endpoints) > domain.MaxDirectoryEntries {
		endpoints = endpoints[:domain.MaxDirectoryEntries]
	}

	out := make([]byte, 0, len(endpoints)*domain.DirectoryRecordSize)
	for _, e := range endpoints {
		if !e.Host.Is4() {
			continue
		}
		host := e.Host.As4()
		out = append(out, host[:]...)
		out = binary.BigEndian.AppendUint16(out, e.Port)
	}
	return out
}
