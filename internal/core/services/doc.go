// Package services holds docrag's core logic.
//
// RetrievalPipeline chunks, embeds and stores text and answers similarity
// queries over it. DocumentService turns files into indexed documents and
// SettingsService maps the config store onto domain.AppSettings. Services
// depend only on the driven ports, so every adapter can be swapped in tests.
package services
