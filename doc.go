// Copyright 2023 uhppoted@twyst.co.za. All rights reserved.
// Use of this source code is governed by an MIT-style license
// that can be found in the LICENSE file.

/*
Package uhppoted-app-formfiles relocates files uploaded through a Google Form from the form owner's Google Drive
to a Google Cloud Storage bucket and records the new object URL in the form's response spreadsheet.

uhppoted-app-formfiles can be used from the command line but is really intended to be run either from a cron job
(relocate) or as a small HTTP endpoint (serve) that receives form submission events.

uhppoted-app-formfiles supports the following commands:

  - on-submit, to relocate the files for a single form submission event read from a file or stdin
  - relocate, to relocate the files for all new responses to a Google Form
  - serve, to accept form submission events over HTTP
  - list, to list the objects already stored in the destination folder
  - authorise, to verify that the service account can obtain an access token
  - version, to display the current version
*/
package formfiles
