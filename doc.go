// Copyright 2026 The ozon-app-sheets Authors. All rights reserved.
// Use of this source code is governed by an MIT-style license
// that can be found in the LICENSE file.

/*
Package ozon-app-sheets publishes an Ozon seller catalog, merged with a file of recommended prices, to a Google Sheets worksheet.

ozon-app-sheets can be used from the command line but is really intended to be run from a cron job to keep a shared
pricing report up to date. Every run is a full rewrite of the report worksheet.

ozon-app-sheets supports the following commands:

  - sync, to fetch the catalog, merge the recommended prices and rewrite the report worksheet (the default)
  - setup, to create the settings file and a sample recommended prices workbook
  - get, to download the report worksheet as a TSV file
  - version, to display the current version
*/
package sheets
